// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/scrypt"

	"github.com/bureau-foundation/aef/lib/secret"
)

// Chunk framing constants. These are wire format constants: changing
// any of them breaks every existing archive.
const (
	// KeySize is the AES-256-GCM key length derived by scrypt.
	KeySize = 32

	// NonceSize is the per-chunk random GCM nonce length.
	NonceSize = 12

	// TagSize is the GCM authentication tag appended to every sealed
	// chunk.
	TagSize = 16

	// chunkLengthSize is the big-endian u16 that prefixes every chunk.
	chunkLengthSize = 2

	// MaxChunkPlaintext is the largest plaintext that fits a chunk:
	// the sealed length (plaintext + tag) must fit the u16 field.
	MaxChunkPlaintext = math.MaxUint16 - TagSize
)

// terminator is the complete wire encoding of a zero-length chunk.
var terminator = [chunkLengthSize]byte{0, 0}

// Cipher frames and authenticates chunks under one key derived from a
// password. The key lives in a [secret.Buffer] and is wiped by Close.
// A Cipher is owned by a single Encoder or Decoder and is not safe for
// concurrent use.
type Cipher struct {
	key *secret.Buffer

	// aead is built once from key. Its AES key schedule lives on the Go
	// heap and cannot be wiped; Close drops the reference.
	aead cipher.AEAD

	// frame is reused across chunks; it holds at most one chunk of
	// ciphertext.
	frame []byte
}

// NewCipher derives the archive key from password with scrypt. The
// derivation is deterministic for identical inputs and is not bounded
// in time: expensive parameters simply take long. password is borrowed
// and not modified.
func NewCipher(password []byte, salt [SaltSize]byte, params KDFParams) (*Cipher, error) {
	if err := params.Validate(); err != nil {
		return nil, &Error{Kind: KindHeader, Op: "deriving key", Err: err}
	}

	derived, err := scrypt.Key(password, salt[:], params.N(), int(params.R), int(params.P), KeySize)
	if err != nil {
		return nil, &Error{Kind: KindHeader, Op: "deriving key", Err: fmt.Errorf("%w: %v", ErrKDFParams, err)}
	}

	// NewFromBytes copies into guarded memory and zeroes derived.
	key, err := secret.NewFromBytes(derived)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "storing key", Err: err}
	}

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		key.Close()
		return nil, &Error{Kind: KindEncryption, Op: "initializing AES-256-GCM", Err: fmt.Errorf("%w: %v", ErrEncryption, err)}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		key.Close()
		return nil, &Error{Kind: KindEncryption, Op: "initializing AES-256-GCM", Err: fmt.Errorf("%w: %v", ErrEncryption, err)}
	}
	return &Cipher{key: key, aead: aead}, nil
}

// Close wipes the key and the chunk buffer. Chunks cannot be written
// or read afterwards. Idempotent.
func (c *Cipher) Close() error {
	c.aead = nil
	secret.Zero(c.frame)
	return c.key.Close()
}

func (c *Cipher) frameBuffer(size int) []byte {
	if cap(c.frame) < size {
		secret.Zero(c.frame)
		c.frame = make([]byte, size, chunkLengthSize+NonceSize+math.MaxUint16)
	}
	return c.frame[:size]
}

// WriteChunk seals plaintext and writes it as one chunk:
//
//	[length: 2 bytes BE] [nonce: 12 bytes] [ciphertext+tag: length bytes]
//
// An empty plaintext writes only the two-byte zero length, which is
// the terminator chunk. Plaintext longer than MaxChunkPlaintext is
// rejected with ErrChunkTooLarge; callers split larger payloads.
func (c *Cipher) WriteChunk(w io.Writer, plaintext []byte) error {
	if len(plaintext) == 0 {
		if _, err := w.Write(terminator[:]); err != nil {
			return ioError("writing terminator chunk", err)
		}
		return nil
	}
	if len(plaintext) > MaxChunkPlaintext {
		return &Error{Kind: KindEncryption, Op: "sealing chunk",
			Err: fmt.Errorf("%w: %d > %d bytes", ErrChunkTooLarge, len(plaintext), MaxChunkPlaintext)}
	}

	if c.aead == nil {
		return &Error{Kind: KindEncryption, Op: "sealing chunk", Err: ErrClosed}
	}

	frame := c.frameBuffer(chunkLengthSize + NonceSize)
	binary.BigEndian.PutUint16(frame, uint16(len(plaintext)+TagSize))
	nonce := frame[chunkLengthSize:]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return &Error{Kind: KindEncryption, Op: "generating nonce", Err: fmt.Errorf("%w: %v", ErrEncryption, err)}
	}

	// Seal appends ciphertext+tag after the length and nonce.
	frame = c.aead.Seal(frame, nonce, plaintext, nil)
	c.frame = frame

	if _, err := w.Write(frame); err != nil {
		return ioError("writing chunk", err)
	}
	return nil
}

// ReadChunk reads one chunk and returns its authenticated plaintext.
// The returned slice aliases an internal buffer and is valid only
// until the next ReadChunk call.
//
// Stream signals:
//   - io.EOF: the input ended cleanly before a length field; there
//     are no more chunks at all.
//   - ErrEndOfData: a terminator chunk; the current entry's data is
//     complete and the stream continues.
//
// A chunk that fails authentication returns a KindDecryption error
// and no plaintext.
func (c *Cipher) ReadChunk(r io.Reader) ([]byte, error) {
	var lengthField [chunkLengthSize]byte
	if _, err := io.ReadFull(r, lengthField[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, ioError("reading chunk length", err)
	}

	length := int(binary.BigEndian.Uint16(lengthField[:]))
	if length == 0 {
		return nil, ErrEndOfData
	}
	if c.aead == nil {
		return nil, &Error{Kind: KindDecryption, Op: "opening chunk", Err: ErrClosed}
	}

	frame := c.frameBuffer(NonceSize + length)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, ioError("reading chunk body", err)
	}
	nonce, sealed := frame[:NonceSize], frame[NonceSize:]

	plaintext, err := c.aead.Open(sealed[:0], nonce, sealed, nil)
	if err != nil {
		return nil, &Error{Kind: KindDecryption, Op: "opening chunk", Err: ErrDecryption}
	}
	return plaintext, nil
}
