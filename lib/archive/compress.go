// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// BufferSize is the plaintext read size per data chunk and the size of
// the stream buffers on both sides.
const BufferSize = 8 * 1024

// CompressionTag identifies the codec applied to file data. The tag is
// the last header byte; these values are wire constants.
type CompressionTag uint8

const (
	// CompressionNone stores file data as-is.
	CompressionNone CompressionTag = 0

	// CompressionBrotli is the original "compression on" flag value.
	CompressionBrotli CompressionTag = 1

	// CompressionZstd uses zstd frames (klauspost/compress).
	CompressionZstd CompressionTag = 2

	// CompressionLZ4 uses LZ4 frames. Fastest, lowest ratio.
	CompressionLZ4 CompressionTag = 3
)

func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionBrotli:
		return "brotli"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

func (tag CompressionTag) valid() bool {
	return tag <= CompressionLZ4
}

// ParseCompressionTag parses a codec name as printed by String.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "brotli":
		return CompressionBrotli, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression codec %q (want none, brotli, zstd, or lz4)", name)
	}
}

// Compression quality bounds. The scale is brotli's; zstd and lz4 map
// it onto their own levels. Quality is an encoder setting only and is
// not recorded in the archive.
const (
	MinLevel     = 0
	MaxLevel     = 11
	DefaultLevel = MinLevel
)

// Compression selects the codec and quality for a new archive. The
// zero value disables compression.
type Compression struct {
	Tag   CompressionTag
	Level int
}

// Validate checks the tag and the quality range.
func (compression Compression) Validate() error {
	if !compression.Tag.valid() {
		return fmt.Errorf("unsupported compression tag %d", compression.Tag)
	}
	if compression.Level < MinLevel || compression.Level > MaxLevel {
		return fmt.Errorf("compression level %d out of range [%d, %d]", compression.Level, MinLevel, MaxLevel)
	}
	return nil
}

func (compression Compression) String() string {
	if compression.Tag == CompressionNone {
		return "none"
	}
	return fmt.Sprintf("%s:%d", compression.Tag, compression.Level)
}

// brotliWindowBits is the brotli LGWin used for every archive.
const brotliWindowBits = 22

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// NewEncodingReader wraps source so that reads return the encoded
// stream: source itself (buffered) for CompressionNone, or its
// compressed form. Compression runs synchronously inside Read; no
// goroutines are started.
func NewEncodingReader(source io.Reader, compression Compression) (io.Reader, error) {
	if err := compression.Validate(); err != nil {
		return nil, err
	}
	if compression.Tag == CompressionNone {
		return bufio.NewReaderSize(source, BufferSize), nil
	}

	reader := &encodingReader{
		source:  source,
		scratch: make([]byte, BufferSize),
	}

	switch compression.Tag {
	case CompressionBrotli:
		reader.encoder = brotli.NewWriterOptions(&reader.pending, brotli.WriterOptions{
			Quality: compression.Level,
			LGWin:   brotliWindowBits,
		})

	case CompressionZstd:
		encoder, err := zstd.NewWriter(&reader.pending,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compression.Level*2)),
			zstd.WithEncoderConcurrency(1),
			zstd.WithZeroFrames(true),
		)
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		reader.encoder = encoder

	case CompressionLZ4:
		level := compression.Level
		if level >= len(lz4Levels) {
			level = len(lz4Levels) - 1
		}
		writer := lz4.NewWriter(&reader.pending)
		if err := writer.Apply(lz4.CompressionLevelOption(lz4Levels[level]), lz4.ConcurrencyOption(1)); err != nil {
			return nil, fmt.Errorf("lz4 encoder: %w", err)
		}
		reader.encoder = writer
	}
	return reader, nil
}

// encodingReader turns a push-style compressor into a pull-style
// reader: each fill pushes one buffer of source into the compressor,
// whose output accumulates in pending until Read drains it.
type encodingReader struct {
	source  io.Reader
	encoder io.WriteCloser
	pending bytes.Buffer
	scratch []byte
	done    bool
}

func (r *encodingReader) Read(p []byte) (int, error) {
	for r.pending.Len() == 0 {
		if r.done {
			return 0, io.EOF
		}
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	return r.pending.Read(p)
}

func (r *encodingReader) fill() error {
	n, err := r.source.Read(r.scratch)
	if n > 0 {
		if _, writeErr := r.encoder.Write(r.scratch[:n]); writeErr != nil {
			return fmt.Errorf("compressing: %w", writeErr)
		}
	}
	if err == io.EOF {
		r.done = true
		if closeErr := r.encoder.Close(); closeErr != nil {
			return fmt.Errorf("finishing compressed stream: %w", closeErr)
		}
		return nil
	}
	return err
}

// NewDecodingReader wraps an encoded stream so that reads return the
// original bytes. The caller must Close the result to release decoder
// state; Close does not close source.
func NewDecodingReader(source io.Reader, tag CompressionTag) (io.ReadCloser, error) {
	switch tag {
	case CompressionNone:
		return io.NopCloser(source), nil

	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(source)), nil

	case CompressionZstd:
		decoder, err := zstd.NewReader(source, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return decoder.IOReadCloser(), nil

	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(source)), nil

	default:
		return nil, fmt.Errorf("unsupported compression tag %d", tag)
	}
}
