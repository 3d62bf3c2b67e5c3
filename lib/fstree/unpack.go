// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/aef/lib/archive"
)

// EntryReader is the decoding half of an archive session.
type EntryReader interface {
	ReadEntry() (archive.Entry, error)
	ReadDataTo(w io.Writer) (int64, error)
}

// Unpack extracts every member read from decoder into destination,
// which is created if missing and must otherwise be a directory.
// Existing files are never overwritten: a member that collides with an
// existing file aborts the unpack. Existing directories are merged.
//
// Directory permissions are applied after all members are written, so
// a read-only directory does not block creation of its own children.
func Unpack(ctx context.Context, decoder EntryReader, destination string, observer Observer) error {
	if err := ensureDestination(destination); err != nil {
		return err
	}

	type directoryMode struct {
		path        string
		permissions uint32
	}
	var directories []directoryMode

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := decoder.ReadEntry()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		target := entry.Path.Join(destination)
		switch entry.Type {
		case archive.Directory:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", entry.Path, err)
			}
			if entry.HasPermissions() {
				directories = append(directories, directoryMode{target, entry.Permissions})
			}
			observer.notify(Event{Action: ActionWrite, Type: archive.Directory, Path: entry.Path.String()})

		case archive.File:
			size, err := extractFile(decoder, entry, target)
			if err != nil {
				return err
			}
			observer.notify(Event{Action: ActionWrite, Type: archive.File, Path: entry.Path.String(), Size: size})
		}
	}

	// Deepest first, so tightening a parent never blocks a child.
	for index := len(directories) - 1; index >= 0; index-- {
		directory := directories[index]
		if err := ApplyPermissions(directory.path, directory.permissions); err != nil {
			return err
		}
	}
	return nil
}

func ensureDestination(destination string) error {
	info, err := os.Stat(destination)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(destination, 0o755); err != nil {
			return fmt.Errorf("creating destination: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("destination %s is not a directory", destination)
	}
	return nil
}

func extractFile(decoder EntryReader, entry archive.Entry, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("creating parent of %s: %w", entry.Path, err)
	}

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return 0, fmt.Errorf("creating file %s: %w", entry.Path, err)
	}

	size, err := decoder.ReadDataTo(file)
	if err != nil {
		file.Close()
		return size, fmt.Errorf("extracting %s: %w", entry.Path, err)
	}
	if err := file.Close(); err != nil {
		return size, fmt.Errorf("closing %s: %w", entry.Path, err)
	}

	if entry.HasPermissions() {
		if err := ApplyPermissions(target, entry.Permissions); err != nil {
			return size, err
		}
	}
	return size, nil
}
