// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/aef/cmd/aef/cli"
	"github.com/bureau-foundation/aef/lib/archive"
	"github.com/bureau-foundation/aef/lib/fstree"
)

type decryptParams struct {
	commonParams
	passwordParams
	Input  string `json:"input"  flag:"input,i"  desc:"archive to read, - for stdin" default:"-"`
	Output string `json:"output" flag:"output,o" desc:"directory to extract into, created if missing (required)"`
	Quiet  bool   `json:"quiet"  flag:"quiet,q"  desc:"do not print a record per member"`
}

func decryptCommand(std streams) *cli.Command {
	var params decryptParams

	return &cli.Command{
		Name:    "decrypt",
		Summary: "Extract an encrypted archive into a directory",
		Description: `Decrypt an archive and recreate its members under a directory.

Every chunk is authenticated before anything derived from it is used.
Member paths are sanitized: they can never escape the output directory.
Existing files are never overwritten; extraction stops at the first
conflict. Directory permissions are applied after all members are
written.

A wrong password and a corrupted archive are reported the same way:
authentication of the first chunk fails.`,
		Usage: "aef decrypt [-i FILE|-] -o DIR [flags]",
		Examples: []cli.Example{
			{
				Description: "Restore an archive into ./restore",
				Command:     "aef decrypt -i photos.aef -o restore",
			},
			{
				Description: "Extract from a pipe with a password file",
				Command:     "ssh backup 'cat photos.aef' | aef decrypt -o restore --password-file pw.txt",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q (use -i to name the archive)", args[0])
			}
			return runDecrypt(ctx, &params, std, logger)
		},
	}
}

func runDecrypt(ctx context.Context, params *decryptParams, std streams, logger *slog.Logger) error {
	if params.Output == "" {
		return fmt.Errorf("--output is required")
	}
	if params.Input == "-" && params.PasswordFile == "-" {
		return fmt.Errorf("--password-file - cannot be combined with an archive on stdin")
	}

	cfg, err := params.loadConfig(logger)
	if err != nil {
		return err
	}

	in, err := openInput(params.Input, std)
	if err != nil {
		return err
	}
	defer in.Close()

	password, err := params.readPassword(cfg, std, false)
	if err != nil {
		return err
	}
	defer password.Close()

	logger = logger.With("input", params.Input, "output", params.Output)

	decoder, err := archive.NewDecoder(in, password.Bytes())
	if err != nil {
		return err
	}
	defer decoder.Close()

	header := decoder.Header()
	logger.Debug("archive opened", "kdf", header.Params, "compression", header.Compression)

	printer := newPrinter(std.out, cfg, params.Quiet)
	var members int
	var plaintext int64
	observer := func(event fstree.Event) {
		if event.Action != fstree.ActionWrite {
			return
		}
		members++
		plaintext += event.Size
		if printer != nil {
			printer.Record("Write", event.Path, event.Type == archive.Directory)
		}
	}

	if err := fstree.Unpack(ctx, decoder, params.Output, observer); err != nil {
		return err
	}

	logger.Info("archive extracted",
		"members", members,
		"plaintext", humanize.IBytes(uint64(plaintext)),
	)
	return nil
}
