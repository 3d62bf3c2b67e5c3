// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"io"
)

// Encoder writes an archive: one header, then for every member an
// entry chunk, followed for files by data chunks and a terminator.
// The Encoder owns its output for its lifetime and is not safe for
// concurrent use.
type Encoder struct {
	out         *bufio.Writer
	cipher      *Cipher
	header      Header
	compression Compression
	buffer      []byte
	closed      bool
}

// NewEncoder starts an archive on w. It generates a random salt,
// writes the header, and derives the key from password (which is
// borrowed and not retained). Deriving the key costs whatever params
// say it costs; DefaultKDFParams uses about 1 GiB and a second or more.
func NewEncoder(w io.Writer, password []byte, params KDFParams, compression Compression) (*Encoder, error) {
	if err := params.Validate(); err != nil {
		return nil, &Error{Kind: KindHeader, Op: "creating archive", Err: err}
	}
	if err := compression.Validate(); err != nil {
		return nil, &Error{Kind: KindHeader, Op: "creating archive", Err: err}
	}

	salt, err := NewSalt()
	if err != nil {
		return nil, &Error{Kind: KindEncryption, Op: "creating archive", Err: err}
	}
	header := Header{Salt: salt, Params: params, Compression: compression.Tag}

	cipher, err := NewCipher(password, salt, params)
	if err != nil {
		return nil, err
	}

	out := bufio.NewWriterSize(w, BufferSize)
	if _, err := header.WriteTo(out); err != nil {
		cipher.Close()
		return nil, err
	}

	return &Encoder{
		out:         out,
		cipher:      cipher,
		header:      header,
		compression: compression,
		buffer:      make([]byte, BufferSize),
	}, nil
}

// Header returns the header written at the start of the archive.
func (e *Encoder) Header() Header {
	return e.header
}

// AppendDirectory writes a directory entry. No data follows it.
func (e *Encoder) AppendDirectory(path string, permissions uint32) error {
	return e.appendEntry(Directory, path, permissions)
}

// AppendFile writes a file entry followed by the (optionally
// compressed) content of r, one chunk per read of at most BufferSize
// bytes, and a terminator. An empty r produces the entry chunk and the
// terminator with no data chunks in between when compression is off.
func (e *Encoder) AppendFile(path string, permissions uint32, r io.Reader) error {
	if err := e.appendEntry(File, path, permissions); err != nil {
		return err
	}

	encoded, err := NewEncodingReader(r, e.compression)
	if err != nil {
		return &Error{Kind: KindIO, Op: "compressing file data", Err: err}
	}

	for {
		n, err := encoded.Read(e.buffer)
		if n > 0 {
			if writeErr := e.cipher.WriteChunk(e.out, e.buffer[:n]); writeErr != nil {
				return writeErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return ioError("reading file data for "+path, err)
		}
	}
	return e.cipher.WriteChunk(e.out, nil)
}

func (e *Encoder) appendEntry(fileType FileType, path string, permissions uint32) error {
	if e.closed {
		return &Error{Kind: KindIO, Op: "appending entry", Err: ErrClosed}
	}

	relative, err := NewRelativePath(path)
	if err != nil {
		return err
	}
	entry := Entry{Type: fileType, Permissions: permissions, Path: relative}
	record, err := entry.MarshalBinary()
	if err != nil {
		return err
	}
	return e.cipher.WriteChunk(e.out, record)
}

// Flush writes any buffered archive bytes to the underlying writer.
func (e *Encoder) Flush() error {
	if err := e.out.Flush(); err != nil {
		return ioError("flushing archive", err)
	}
	return nil
}

// Close flushes the archive and wipes the key. It does not close the
// underlying writer. Calling Close more than once is a no-op.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	flushErr := e.Flush()
	e.cipher.Close()
	return flushErr
}
