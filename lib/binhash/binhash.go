// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is an unkeyed BLAKE3-256 hash, the same value b3sum prints.
type Digest [32]byte

// Sum returns the digest of data.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// String returns the lowercase hex encoding.
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// MarshalText renders the digest as lowercase hex, for JSON and CBOR
// output.
func (digest Digest) MarshalText() ([]byte, error) {
	return []byte(digest.String()), nil
}

// UnmarshalText parses the hex form produced by MarshalText.
func (digest *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*digest = parsed
	return nil
}

// Hasher accumulates a Digest over writes. Reset makes it reusable.
type Hasher struct {
	hasher *blake3.Hasher
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{hasher: blake3.New()}
}

func (h *Hasher) Write(p []byte) (int, error) {
	return h.hasher.Write(p)
}

// Reset discards everything written so far.
func (h *Hasher) Reset() {
	h.hasher.Reset()
}

// Digest returns the digest of everything written since the last Reset.
func (h *Hasher) Digest() Digest {
	var digest Digest
	copy(digest[:], h.hasher.Sum(nil))
	return digest
}

// HashFile computes the digest of the file at path. The file is
// streamed through the hash function in chunks (via io.Copy) to keep
// memory usage constant regardless of file size.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := NewHasher()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hasher.Digest(), nil
}

// ParseDigest parses a hex-encoded digest string. Returns an error if
// the string is not a valid 64-character hex encoding of 32 bytes.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("hash digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
