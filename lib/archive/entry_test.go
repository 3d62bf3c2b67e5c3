// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func mustPath(t *testing.T, path string) RelativePath {
	t.Helper()
	relative, err := NewRelativePath(filepath.FromSlash(path))
	if err != nil {
		t.Fatalf("NewRelativePath(%q) failed: %v", path, err)
	}
	return relative
}

func TestEntry_MarshalBinary(t *testing.T) {
	entry := Entry{Type: Directory, Permissions: 0o755, Path: mustPath(t, "a/b")}

	data, err := entry.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x01, 0xED, 'a', 0x1F, 'b'}
	if !bytes.Equal(data, want) {
		t.Errorf("MarshalBinary = %x, want %x", data, want)
	}
}

func TestEntry_RoundTrip(t *testing.T) {
	tests := []Entry{
		{Type: File, Permissions: 0o644, Path: mustPath(t, "docs/readme.md")},
		{Type: Directory, Permissions: 0, Path: mustPath(t, "empty")},
		{Type: File, Permissions: 0xFFFFFFFF, Path: mustPath(t, "x")},
	}
	for _, original := range tests {
		t.Run(original.Path.String(), func(t *testing.T) {
			data, err := original.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			decoded, err := UnmarshalEntry(data)
			if err != nil {
				t.Fatalf("UnmarshalEntry failed: %v", err)
			}
			if decoded != original {
				t.Errorf("UnmarshalEntry = %+v, want %+v", decoded, original)
			}
			if decoded.HasPermissions() != (original.Permissions != 0) {
				t.Errorf("HasPermissions() = %v", decoded.HasPermissions())
			}
		})
	}
}

func TestEntry_MarshalBinary_ZeroPath(t *testing.T) {
	entry := Entry{Type: File}
	_, err := entry.MarshalBinary()
	if !errors.Is(err, ErrEmptyPath) {
		t.Errorf("error = %v, want ErrEmptyPath", err)
	}
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		wantKind Kind
	}{
		{"empty", nil, KindEntry},
		{"no path", []byte{1, 0, 0, 0, 0}, KindEntry},
		{"unknown type", []byte{2, 0, 0, 0, 0, 'a'}, KindEntry},
		{"path is dot", []byte{1, 0, 0, 0, 0, '.'}, KindPath},
		{"path has NUL", []byte{1, 0, 0, 0, 0, 'a', 0, 'b'}, KindPath},
		{"path not UTF-8", []byte{0, 0, 0, 0, 0, 0xFF}, KindPath},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := UnmarshalEntry(test.input)
			if err == nil {
				t.Fatal("UnmarshalEntry should fail")
			}
			if KindOf(err) != test.wantKind {
				t.Errorf("KindOf(%v) = %v, want %v", err, KindOf(err), test.wantKind)
			}
			if test.wantKind == KindEntry && !errors.Is(err, ErrEntry) {
				t.Errorf("error = %v, want ErrEntry", err)
			}
		})
	}
}

func TestFileType_String(t *testing.T) {
	tests := []struct {
		fileType FileType
		want     string
	}{
		{Directory, "directory"},
		{File, "file"},
		{FileType(7), "unknown(7)"},
	}
	for _, test := range tests {
		if got := test.fileType.String(); got != test.want {
			t.Errorf("FileType(%d).String() = %q, want %q", test.fileType, got, test.want)
		}
	}
}
