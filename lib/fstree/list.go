// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"context"
	"io"

	"github.com/bureau-foundation/aef/lib/archive"
	"github.com/bureau-foundation/aef/lib/binhash"
)

// Item describes one archive member as reported by List.
type Item struct {
	Type        archive.FileType
	Permissions uint32
	Path        archive.RelativePath

	// Size and Digest are zero for directories.
	Size   int64
	Digest binhash.Digest
}

// List decodes every member without writing anything to disk and calls
// fn once per member. File data is fully decrypted and decompressed,
// so List also verifies the whole archive.
func List(ctx context.Context, decoder EntryReader, fn func(Item) error) error {
	hasher := binhash.NewHasher()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := decoder.ReadEntry()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		item := Item{Type: entry.Type, Permissions: entry.Permissions, Path: entry.Path}
		if entry.Type == archive.File {
			hasher.Reset()
			size, err := decoder.ReadDataTo(hasher)
			if err != nil {
				return err
			}
			item.Size = size
			item.Digest = hasher.Digest()
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}
