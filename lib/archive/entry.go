// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/binary"
	"fmt"
)

// FileType is the entry type tag. Values are wire constants.
type FileType uint8

const (
	// Directory entries are followed by no data chunks.
	Directory FileType = 0
	// File entries are followed by data chunks and a terminator.
	File FileType = 1
)

func (fileType FileType) String() string {
	switch fileType {
	case Directory:
		return "directory"
	case File:
		return "file"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(fileType))
	}
}

// minEntrySize is the type tag, the permission word, and at least one
// path byte.
const minEntrySize = 1 + 4 + 1

// Entry describes one archive member. Its encoding is the plaintext
// of exactly one chunk:
//
//	[type: 1 byte] [permissions: 4 bytes BE] [path: remaining bytes]
type Entry struct {
	Type FileType

	// Permissions is the platform permission bitmask, or 0 when none
	// was recorded. A real mask of 0 is therefore stored as "none".
	Permissions uint32

	Path RelativePath
}

// HasPermissions reports whether the entry records a permission mask.
func (entry *Entry) HasPermissions() bool {
	return entry.Permissions != 0
}

// MarshalBinary encodes the entry record.
func (entry *Entry) MarshalBinary() ([]byte, error) {
	if entry.Path.IsZero() {
		return nil, pathError(ErrEmptyPath, "entry has no path")
	}
	path := entry.Path.Bytes()
	data := make([]byte, 0, 1+4+len(path))
	data = append(data, byte(entry.Type))
	data = binary.BigEndian.AppendUint32(data, entry.Permissions)
	data = append(data, path...)
	return data, nil
}

// UnmarshalEntry decodes an entry record. Records shorter than six
// bytes and unknown type tags fail with ErrEntry; path failures keep
// their KindPath classification.
func UnmarshalEntry(data []byte) (Entry, error) {
	if len(data) < minEntrySize {
		return Entry{}, entryError("%d bytes, need at least %d", len(data), minEntrySize)
	}

	fileType := FileType(data[0])
	if fileType != Directory && fileType != File {
		return Entry{}, entryError("unknown type tag %d", data[0])
	}

	path, err := RelativePathFromBytes(data[5:])
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Type:        fileType,
		Permissions: binary.BigEndian.Uint32(data[1:5]),
		Path:        path,
	}, nil
}
