// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"testing"
	"testing/iotest"
)

var allTags = []CompressionTag{CompressionNone, CompressionBrotli, CompressionZstd, CompressionLZ4}

func TestCompressionTag_String(t *testing.T) {
	tests := []struct {
		tag  CompressionTag
		want string
	}{
		{CompressionNone, "none"},
		{CompressionBrotli, "brotli"},
		{CompressionZstd, "zstd"},
		{CompressionLZ4, "lz4"},
		{CompressionTag(42), "unknown(42)"},
	}
	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			if got := test.tag.String(); got != test.want {
				t.Errorf("CompressionTag(%d).String() = %q, want %q", test.tag, got, test.want)
			}
		})
	}
}

func TestParseCompressionTag(t *testing.T) {
	for _, tag := range allTags {
		parsed, err := ParseCompressionTag(tag.String())
		if err != nil {
			t.Fatalf("ParseCompressionTag(%q) failed: %v", tag, err)
		}
		if parsed != tag {
			t.Errorf("ParseCompressionTag(%q) = %v", tag, parsed)
		}
	}
	if _, err := ParseCompressionTag("gzip"); err == nil {
		t.Error("ParseCompressionTag(\"gzip\") should fail")
	}
}

func TestCompression_Validate(t *testing.T) {
	tests := []struct {
		compression Compression
		valid       bool
	}{
		{Compression{}, true},
		{Compression{Tag: CompressionBrotli, Level: MaxLevel}, true},
		{Compression{Tag: CompressionZstd, Level: 5}, true},
		{Compression{Tag: CompressionLZ4, Level: MaxLevel}, true},
		{Compression{Tag: CompressionBrotli, Level: MaxLevel + 1}, false},
		{Compression{Tag: CompressionBrotli, Level: -1}, false},
		{Compression{Tag: CompressionTag(4)}, false},
	}
	for _, test := range tests {
		err := test.compression.Validate()
		if test.valid != (err == nil) {
			t.Errorf("Validate(%+v) = %v, want valid=%v", test.compression, err, test.valid)
		}
	}
}

func compressionPayloads(t *testing.T) map[string][]byte {
	t.Helper()
	random := make([]byte, 3*BufferSize+17)
	if _, err := rand.Read(random); err != nil {
		t.Fatal(err)
	}
	return map[string][]byte{
		"empty":      {},
		"one byte":   {0x42},
		"text":       []byte("the quick brown fox jumps over the lazy dog"),
		"random":     random,
		"repetitive": bytes.Repeat([]byte("abcdefgh"), 64*1024),
	}
}

func compress(t *testing.T, data []byte, compression Compression) []byte {
	t.Helper()
	encoded, err := NewEncodingReader(bytes.NewReader(data), compression)
	if err != nil {
		t.Fatalf("NewEncodingReader(%s) failed: %v", compression, err)
	}
	compressed, err := io.ReadAll(encoded)
	if err != nil {
		t.Fatalf("reading %s stream failed: %v", compression, err)
	}
	return compressed
}

func decompress(t *testing.T, data []byte, tag CompressionTag) []byte {
	t.Helper()
	decoded, err := NewDecodingReader(bytes.NewReader(data), tag)
	if err != nil {
		t.Fatalf("NewDecodingReader(%s) failed: %v", tag, err)
	}
	defer decoded.Close()
	plain, err := io.ReadAll(decoded)
	if err != nil {
		t.Fatalf("decoding %s stream failed: %v", tag, err)
	}
	return plain
}

func TestCompression_RoundTrip(t *testing.T) {
	payloads := compressionPayloads(t)

	for _, tag := range allTags {
		for _, level := range []int{MinLevel, 5, MaxLevel} {
			if tag == CompressionNone && level != MinLevel {
				continue
			}
			compression := Compression{Tag: tag, Level: level}
			for name, data := range payloads {
				t.Run(fmt.Sprintf("%s/%s", compression, name), func(t *testing.T) {
					compressed := compress(t, data, compression)
					if got := decompress(t, compressed, tag); !bytes.Equal(got, data) {
						t.Errorf("round trip returned %d bytes, want %d", len(got), len(data))
					}
				})
			}
		}
	}
}

func TestCompression_ShrinksRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 64*1024)
	for _, tag := range allTags[1:] {
		compressed := compress(t, data, Compression{Tag: tag, Level: 5})
		if len(compressed) >= len(data)/10 {
			t.Errorf("%s: %d bytes compressed to %d", tag, len(data), len(compressed))
		}
	}
}

func TestCompressionNone_PassThrough(t *testing.T) {
	data := []byte("stored verbatim")
	if got := compress(t, data, Compression{}); !bytes.Equal(got, data) {
		t.Errorf("none produced %q", got)
	}
}

func TestEncodingReader_SmallReads(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 5000)

	for _, tag := range allTags {
		t.Run(tag.String(), func(t *testing.T) {
			source := iotest.OneByteReader(bytes.NewReader(data))
			encoded, err := NewEncodingReader(source, Compression{Tag: tag, Level: 3})
			if err != nil {
				t.Fatal(err)
			}
			compressed, err := io.ReadAll(iotest.HalfReader(encoded))
			if err != nil {
				t.Fatalf("reading stream failed: %v", err)
			}
			if got := decompress(t, compressed, tag); !bytes.Equal(got, data) {
				t.Error("round trip through one-byte reads differs")
			}
		})
	}
}

func TestEncodingReader_SourceError(t *testing.T) {
	sourceErr := errors.New("device unplugged")

	for _, tag := range allTags {
		t.Run(tag.String(), func(t *testing.T) {
			source := io.MultiReader(bytes.NewReader([]byte("partial")), iotest.ErrReader(sourceErr))
			encoded, err := NewEncodingReader(source, Compression{Tag: tag})
			if err != nil {
				t.Fatal(err)
			}
			_, err = io.ReadAll(encoded)
			if !errors.Is(err, sourceErr) {
				t.Errorf("error = %v, want %v", err, sourceErr)
			}
		})
	}
}

func TestNewEncodingReader_InvalidLevel(t *testing.T) {
	_, err := NewEncodingReader(bytes.NewReader(nil), Compression{Tag: CompressionZstd, Level: 12})
	if err == nil {
		t.Error("level 12 should be rejected")
	}
}

func TestNewDecodingReader_UnknownTag(t *testing.T) {
	_, err := NewDecodingReader(bytes.NewReader(nil), CompressionTag(9))
	if err == nil {
		t.Error("unknown tag should be rejected")
	}
}
