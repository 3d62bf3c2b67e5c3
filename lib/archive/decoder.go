// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Decoder reads an archive written by Encoder. After every ReadEntry
// that returns a File, the caller must consume the file's data with
// ReadDataTo or SkipData before the next ReadEntry; nothing in the
// stream marks what comes next, so misuse desynchronizes it.
//
// A Decoder owns its input for its lifetime and is not safe for
// concurrent use.
type Decoder struct {
	in     *bufio.Reader
	cipher *Cipher
	header Header
	closed bool
}

// NewDecoder reads the header from r and derives the key from password
// and the recorded salt and scrypt parameters. A wrong password is not
// detected here; it surfaces as a KindDecryption error on the first
// chunk.
func NewDecoder(r io.Reader, password []byte) (*Decoder, error) {
	in := bufio.NewReaderSize(r, BufferSize)
	header, err := ReadHeader(in)
	if err != nil {
		return nil, err
	}
	cipher, err := NewCipher(password, header.Salt, header.Params)
	if err != nil {
		return nil, err
	}
	return &Decoder{in: in, cipher: cipher, header: header}, nil
}

// Header returns the archive header.
func (d *Decoder) Header() Header {
	return d.header
}

// ReadEntry reads the next entry record. It returns io.EOF when the
// archive has no more entries.
func (d *Decoder) ReadEntry() (Entry, error) {
	if d.closed {
		return Entry{}, &Error{Kind: KindIO, Op: "reading entry", Err: ErrClosed}
	}

	record, err := d.cipher.ReadChunk(d.in)
	if err == io.EOF {
		return Entry{}, io.EOF
	}
	if err == ErrEndOfData {
		return Entry{}, entryError("terminator chunk where an entry record was expected")
	}
	if err != nil {
		return Entry{}, err
	}
	return UnmarshalEntry(record)
}

// ReadDataTo decodes the current file's data into w and returns the
// number of plaintext bytes written. It reads chunks until the
// terminator, or until the stream ends, whichever comes first. The
// decompressed output is staged through a buffer that is flushed to w
// before ReadDataTo returns.
func (d *Decoder) ReadDataTo(w io.Writer) (int64, error) {
	if d.closed {
		return 0, &Error{Kind: KindIO, Op: "reading entry data", Err: ErrClosed}
	}

	data := &dataReader{cipher: d.cipher, in: d.in}
	decoded, err := NewDecodingReader(data, d.header.Compression)
	if err != nil {
		return 0, &Error{Kind: KindHeader, Op: "reading entry data", Err: err}
	}
	defer decoded.Close()

	sink := &sinkWriter{w: w}
	out := bufio.NewWriterSize(sink, BufferSize)
	written, err := io.Copy(out, decoded)
	if err != nil {
		return written, d.classifyCopyError(sink, err)
	}
	if err := out.Flush(); err != nil {
		return written, ioError("writing entry data", err)
	}

	if err := data.drain(); err != nil {
		return written, err
	}
	return written, nil
}

// classifyCopyError attributes an io.Copy failure to the sink, the
// chunk stream, or the decompressor.
func (d *Decoder) classifyCopyError(sink *sinkWriter, err error) error {
	if sink.err != nil {
		return ioError("writing entry data", sink.err)
	}
	var archiveError *Error
	if errors.As(err, &archiveError) {
		return err
	}
	return &Error{Kind: KindEntry, Op: "decompressing entry data",
		Err: fmt.Errorf("%s stream: %w", d.header.Compression, err)}
}

// SkipData discards the current file's data without decompressing it.
// Every chunk is still authenticated.
func (d *Decoder) SkipData() error {
	if d.closed {
		return &Error{Kind: KindIO, Op: "skipping entry data", Err: ErrClosed}
	}
	data := &dataReader{cipher: d.cipher, in: d.in}
	for !data.done {
		if err := data.next(); err != nil {
			return err
		}
	}
	return nil
}

// Close wipes the key. It does not close the underlying reader.
// Calling Close more than once is a no-op.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.cipher.Close()
}

// dataReader presents the data chunks of one file as a byte stream.
// It reports io.EOF at the terminator (or at the end of the chunk
// stream) and never reads past it.
type dataReader struct {
	cipher  *Cipher
	in      io.Reader
	pending []byte
	done    bool
}

func (r *dataReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}
		if err := r.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// next loads one chunk into pending. The previous pending slice is
// invalidated, since chunk plaintext aliases the cipher's frame.
func (r *dataReader) next() error {
	chunk, err := r.cipher.ReadChunk(r.in)
	switch {
	case err == nil:
		r.pending = chunk
	case err == ErrEndOfData || err == io.EOF:
		r.pending = nil
		r.done = true
	default:
		return err
	}
	return nil
}

// drain consumes chunks up to the terminator after the decompressor
// has finished. A well-formed archive has nothing left; any remaining
// data is trailing garbage after the compressed stream.
func (r *dataReader) drain() error {
	if len(r.pending) > 0 {
		return entryError("%d bytes after end of compressed stream", len(r.pending))
	}
	for !r.done {
		if err := r.next(); err != nil {
			return err
		}
		if len(r.pending) > 0 {
			return entryError("%d bytes after end of compressed stream", len(r.pending))
		}
	}
	return nil
}

// sinkWriter records the first error from the destination so copy
// failures can be told apart from source failures.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil && s.err == nil {
		s.err = err
	}
	return n, err
}
