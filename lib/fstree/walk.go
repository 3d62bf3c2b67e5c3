// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Record is one filesystem object found by Walk.
type Record struct {
	// AbsolutePath locates the object on disk.
	AbsolutePath string

	// RelativeSuffix is the path stored in the archive: the root's
	// base name followed by the path below the root.
	RelativeSuffix string

	IsDir bool

	// Info is the Lstat result; symlinks are not followed.
	Info fs.FileInfo
}

// Regular reports whether the record is a regular file.
func (record *Record) Regular() bool {
	return record.Info.Mode().IsRegular()
}

// Walk visits root and, if it is a directory, everything below it in
// lexical order, parents before children. A root that is a file yields
// exactly one record. Returning an error from fn stops the walk.
func Walk(root string, fn func(Record) error) error {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Lstat(absolute)
	if err != nil {
		return err
	}
	base := filepath.Base(absolute)

	if !info.IsDir() {
		return fn(Record{AbsolutePath: absolute, RelativeSuffix: base, Info: info})
	}

	return filepath.WalkDir(absolute, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		relative, err := filepath.Rel(absolute, path)
		if err != nil {
			return err
		}
		return fn(Record{
			AbsolutePath:   path,
			RelativeSuffix: filepath.Join(base, relative),
			IsDir:          entry.IsDir(),
			Info:           info,
		})
	})
}
