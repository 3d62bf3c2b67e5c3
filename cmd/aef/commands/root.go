// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the aef command tree.
package commands

import "github.com/bureau-foundation/aef/cmd/aef/cli"

// Root builds and returns the complete aef command tree, wired to the
// process's standard streams.
func Root() *cli.Command {
	return newRoot(standardStreams())
}

func newRoot(std streams) *cli.Command {
	return &cli.Command{
		Name: "aef",
		Description: `aef: password-protected archives.

Pack a file or directory tree into a single encrypted stream, and
extract or inspect it again. Keys are derived with scrypt; data is
sealed in AES-256-GCM chunks, optionally compressed with brotli, zstd,
or lz4.

Defaults come from the YAML file named by --config or $AEF_CONFIG.`,
		LogOutput: std.err,
		Subcommands: []*cli.Command{
			encryptCommand(std),
			decryptCommand(std),
			listCommand(std),
			versionCommand(std),
		},
		Examples: []cli.Example{
			{
				Description: "Archive a directory",
				Command:     "aef encrypt -i photos -o photos.aef",
			},
			{
				Description: "Restore it",
				Command:     "aef decrypt -i photos.aef -o restore",
			},
		},
	}
}
