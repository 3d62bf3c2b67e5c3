// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/aef/lib/archive"
)

// Action says what happened to one member.
type Action uint8

const (
	// ActionAdd: the member was appended to an archive.
	ActionAdd Action = iota + 1
	// ActionWrite: the member was extracted to disk.
	ActionWrite
	// ActionSkip: the filesystem object cannot be archived.
	ActionSkip
)

func (action Action) String() string {
	switch action {
	case ActionAdd:
		return "add"
	case ActionWrite:
		return "write"
	case ActionSkip:
		return "skip"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(action))
	}
}

// Event reports progress on one member.
type Event struct {
	Action Action
	Type   archive.FileType

	// Path is the member's path as stored in the archive, or the
	// on-disk path for ActionSkip.
	Path string

	// Size is the plaintext byte count for files, 0 otherwise.
	Size int64

	// Reason explains an ActionSkip.
	Reason string
}

// Observer receives one Event per member. A nil Observer is allowed.
type Observer func(Event)

func (observer Observer) notify(event Event) {
	if observer != nil {
		observer(event)
	}
}

// Appender is the encoding half of an archive session.
type Appender interface {
	AppendDirectory(path string, permissions uint32) error
	AppendFile(path string, permissions uint32, content io.Reader) error
}

// Pack walks root and appends every directory and regular file to
// encoder. The first failure aborts the whole pack; the archive is then
// incomplete and should be discarded.
func Pack(ctx context.Context, encoder Appender, root string, observer Observer) error {
	return Walk(root, func(record Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case record.IsDir:
			if err := encoder.AppendDirectory(record.RelativeSuffix, Permissions(record.Info)); err != nil {
				return fmt.Errorf("adding directory %s: %w", record.AbsolutePath, err)
			}
			observer.notify(Event{Action: ActionAdd, Type: archive.Directory, Path: record.RelativeSuffix})

		case record.Regular():
			if err := appendFile(encoder, record); err != nil {
				return err
			}
			observer.notify(Event{Action: ActionAdd, Type: archive.File, Path: record.RelativeSuffix, Size: record.Info.Size()})

		default:
			observer.notify(Event{Action: ActionSkip, Path: record.AbsolutePath,
				Reason: fmt.Sprintf("unsupported file type %s", record.Info.Mode().Type())})
		}
		return nil
	})
}

func appendFile(encoder Appender, record Record) error {
	file, err := os.Open(record.AbsolutePath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := encoder.AppendFile(record.RelativeSuffix, Permissions(record.Info), file); err != nil {
		return fmt.Errorf("adding file %s: %w", record.AbsolutePath, err)
	}
	return nil
}
