// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
)

// Kind classifies an archive failure. No kind is recoverable: any
// error aborts the whole encode or decode.
type Kind uint8

const (
	// KindIO is a failure of the underlying stream, surfaced verbatim.
	KindIO Kind = iota + 1

	// KindEncryption is a failure to seal a chunk.
	KindEncryption

	// KindDecryption is a chunk that failed authentication. A wrong
	// password and tampered ciphertext are indistinguishable.
	KindDecryption

	// KindEntry is a malformed or truncated entry record.
	KindEntry

	// KindPath is a path that is empty or fails validation.
	KindPath

	// KindHeader is an unrecognized archive header or invalid
	// parameters recorded in it.
	KindHeader
)

// String returns the lowercase name of the kind.
func (kind Kind) String() string {
	switch kind {
	case KindIO:
		return "io"
	case KindEncryption:
		return "encryption"
	case KindDecryption:
		return "decryption"
	case KindEntry:
		return "entry"
	case KindPath:
		return "path"
	case KindHeader:
		return "header"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(kind))
	}
}

// Error is the typed failure returned by every operation in this
// package (except the io.EOF and ErrEndOfData stream signals).
type Error struct {
	Kind Kind
	// Op describes what was being done, e.g. "reading chunk length".
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("archive: %v", e.Err)
	}
	return fmt.Sprintf("archive: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Sentinel causes. Test with errors.Is; the wrapping *Error carries
// the Kind and operation.
var (
	ErrEncryption    = errors.New("chunk encryption failed")
	ErrDecryption    = errors.New("chunk authentication failed (wrong password or corrupted data)")
	ErrChunkTooLarge = errors.New("chunk plaintext exceeds maximum size")
	ErrEntry         = errors.New("malformed entry record")
	ErrEmptyPath     = errors.New("path is empty")
	ErrInvalidPath   = errors.New("path is invalid")
	ErrNotArchive    = errors.New("not an aef archive")
	ErrKDFParams     = errors.New("invalid scrypt parameters")
	ErrClosed        = errors.New("archive session is closed")
)

// ErrEndOfData is returned by [Cipher.ReadChunk] for a terminator
// chunk: the data of the current entry is complete. It is distinct
// from io.EOF, which means the chunk stream itself has ended.
var ErrEndOfData = errors.New("end of entry data")

// KindOf returns the Kind of an archive error, or 0 if err is not an
// *Error.
func KindOf(err error) Kind {
	var archiveError *Error
	if errors.As(err, &archiveError) {
		return archiveError.Kind
	}
	return 0
}

// ioError wraps a stream failure. A bare io.EOF in the middle of a
// structure is truncation, so it is reported as io.ErrUnexpectedEOF to
// keep it from being mistaken for a clean end of stream.
func ioError(op string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &Error{Kind: KindIO, Op: op, Err: err}
}

func pathError(cause error, format string, args ...any) error {
	return &Error{Kind: KindPath, Op: "validating path", Err: fmt.Errorf("%w: "+format, append([]any{cause}, args...)...)}
}

func entryError(format string, args ...any) error {
	return &Error{Kind: KindEntry, Op: "parsing entry", Err: fmt.Errorf("%w: "+format, append([]any{ErrEntry}, args...)...)}
}
