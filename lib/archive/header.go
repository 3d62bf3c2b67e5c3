// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// Header format constants.
const (
	// SaltSize is the length of the random per-archive scrypt salt.
	SaltSize = 64

	// HeaderSize is the fixed header length: 4-byte magic + 64-byte
	// salt + 1-byte log_n + 4-byte r + 4-byte p + 1-byte compression.
	HeaderSize = 4 + SaltSize + 1 + 4 + 4 + 1
)

// magic identifies an archive. There is no separate version field:
// any layout change needs a new magic.
var magic = [4]byte{0xFF, 'A', 'E', 'F'}

// Header is the archive-level metadata written once at the start of
// the stream. Together with the password it determines the key.
type Header struct {
	Salt   [SaltSize]byte
	Params KDFParams

	// Compression is the codec applied to file data. The on-disk
	// byte is 0 for none and 1 for brotli, the original on/off flag.
	Compression CompressionTag
}

// Compressed reports whether file data in the archive is compressed.
func (header *Header) Compressed() bool {
	return header.Compression != CompressionNone
}

// NewSalt returns a fresh random salt.
func NewSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return salt, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// MarshalBinary returns the 74-byte header encoding. All integers are
// big-endian.
func (header *Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 0, HeaderSize)
	data = append(data, magic[:]...)
	data = append(data, header.Salt[:]...)
	data = append(data, header.Params.LogN)
	data = binary.BigEndian.AppendUint32(data, header.Params.R)
	data = binary.BigEndian.AppendUint32(data, header.Params.P)
	data = append(data, byte(header.Compression))
	return data, nil
}

// WriteTo writes the header encoding to w.
func (header *Header) WriteTo(w io.Writer) (int64, error) {
	data, _ := header.MarshalBinary()
	written, err := w.Write(data)
	if err != nil {
		return int64(written), ioError("writing header", err)
	}
	return int64(written), nil
}

// ReadHeader reads and validates a header. It fails with ErrNotArchive
// on a wrong magic, ErrKDFParams when scrypt would reject the recorded
// parameters, and on an unknown compression byte.
func ReadHeader(r io.Reader) (Header, error) {
	var header Header

	var data [HeaderSize]byte
	if _, err := io.ReadFull(r, data[:4]); err != nil {
		return header, ioError("reading header magic", err)
	}
	if [4]byte(data[:4]) != magic {
		return header, &Error{Kind: KindHeader, Op: "reading header",
			Err: fmt.Errorf("%w (magic %x)", ErrNotArchive, data[:4])}
	}
	if _, err := io.ReadFull(r, data[4:]); err != nil {
		return header, ioError("reading header", err)
	}

	offset := 4
	copy(header.Salt[:], data[offset:offset+SaltSize])
	offset += SaltSize
	header.Params.LogN = data[offset]
	offset++
	header.Params.R = binary.BigEndian.Uint32(data[offset:])
	offset += 4
	header.Params.P = binary.BigEndian.Uint32(data[offset:])
	offset += 4

	if err := header.Params.Validate(); err != nil {
		return header, &Error{Kind: KindHeader, Op: "reading header", Err: err}
	}

	tag := CompressionTag(data[offset])
	if !tag.valid() {
		return header, &Error{Kind: KindHeader, Op: "reading header",
			Err: fmt.Errorf("unsupported compression tag %d", data[offset])}
	}
	header.Compression = tag
	return header, nil
}
