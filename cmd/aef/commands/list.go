// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/aef/cmd/aef/cli"
	"github.com/bureau-foundation/aef/lib/archive"
	"github.com/bureau-foundation/aef/lib/binhash"
	"github.com/bureau-foundation/aef/lib/codec"
	"github.com/bureau-foundation/aef/lib/fstree"
)

// Output formats of aef list.
const (
	formatText = "text"
	formatJSON = "json"
	formatCBOR = "cbor"
)

type listParams struct {
	commonParams
	passwordParams
	Input  string `json:"input"  flag:"input,i" desc:"archive to read, - for stdin" default:"-"`
	Format string `json:"format" flag:"format"  desc:"output format: text, json, cbor" default:"text"`
	Verify string `json:"verify" flag:"verify-against" desc:"compare members with the tree under DIR (as decrypt -o DIR would write it); exit 1 on any difference"`
}

// listRow is one archive member in json and cbor output.
type listRow struct {
	Type        string          `json:"type"`
	Path        string          `json:"path"`
	Permissions string          `json:"permissions,omitempty"`
	Size        int64           `json:"size"`
	BLAKE3      *binhash.Digest `json:"blake3,omitempty"`
}

func newListRow(item fstree.Item) listRow {
	row := listRow{
		Type: "file",
		Path: item.Path.String(),
		Size: item.Size,
	}
	if item.Type == archive.Directory {
		row.Type = "directory"
	} else {
		digest := item.Digest
		row.BLAKE3 = &digest
	}
	if item.Permissions != 0 {
		row.Permissions = fmt.Sprintf("%04o", item.Permissions)
	}
	return row
}

func listCommand(std streams) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the members of an encrypted archive",
		Description: `Decrypt an archive without writing anything to disk and print one
line per member: type, permissions, size, BLAKE3-256 digest of the
plaintext, and path.

Every chunk is decrypted and decompressed, so a successful list also
verifies that the whole archive is intact.

--format json prints an array of objects; --format cbor writes a CBOR
sequence with one item per member.

--verify-against DIR additionally hashes the corresponding file under
DIR for every member and reports each one that is missing or differs
on stderr. The command then exits with status 1.`,
		Usage: "aef list [-i FILE|-] [flags]",
		Examples: []cli.Example{
			{
				Description: "Print members as JSON",
				Command:     "aef list -i photos.aef --format json --password-file pw.txt",
			},
			{
				Description: "Check a backup of ~/photos against the live tree",
				Command:     "aef list -i photos.aef --verify-against ~ --password-file pw.txt",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q (use -i to name the archive)", args[0])
			}
			return runList(ctx, &params, std, logger)
		},
	}
}

func runList(ctx context.Context, params *listParams, std streams, logger *slog.Logger) error {
	switch params.Format {
	case formatText, formatJSON, formatCBOR:
	default:
		return fmt.Errorf("unknown --format %q (want %s, %s, or %s)", params.Format, formatText, formatJSON, formatCBOR)
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

	decoder, err := archive.NewDecoder(in, password.Bytes())
	if err != nil {
		return err
	}
	defer decoder.Close()

	header := decoder.Header()
	logger.Debug("archive opened", "input", params.Input, "kdf", header.Params, "compression", header.Compression)

	differences := 0
	list := func(fn func(fstree.Item) error) error {
		return fstree.List(ctx, decoder, func(item fstree.Item) error {
			if params.Verify != "" {
				if problem := verifyItem(params.Verify, item); problem != "" {
					differences++
					fmt.Fprintf(std.err, "%s: %s\n", item.Path, problem)
				}
			}
			return fn(item)
		})
	}

	if err := printItems(std, params.Format, list); err != nil {
		return err
	}
	if differences > 0 {
		fmt.Fprintf(std.err, "%d members differ from %s\n", differences, params.Verify)
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// verifyItem compares a member with its counterpart under root and
// describes the difference, or returns "" if they match.
func verifyItem(root string, item fstree.Item) string {
	path := item.Path.Join(root)
	info, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	if item.Type == archive.Directory {
		if !info.IsDir() {
			return "not a directory"
		}
		return ""
	}
	if !info.Mode().IsRegular() {
		return "not a regular file"
	}
	if info.Size() != item.Size {
		return fmt.Sprintf("size %d, archive has %d", info.Size(), item.Size)
	}
	digest, err := binhash.HashFile(path)
	if err != nil {
		return err.Error()
	}
	if digest != item.Digest {
		return "content differs"
	}
	return ""
}

// printItems writes every member produced by list in format.
func printItems(std streams, format string, list func(func(fstree.Item) error) error) error {
	switch format {
	case formatJSON:
		rows := []listRow{}
		err := list(func(item fstree.Item) error {
			rows = append(rows, newListRow(item))
			return nil
		})
		if err != nil {
			return err
		}
		return cli.WriteJSON(std.out, rows)

	case formatCBOR:
		encoder := codec.NewEncoder(std.out)
		return list(func(item fstree.Item) error {
			return encoder.Encode(newListRow(item))
		})

	default:
		writer := tabwriter.NewWriter(std.out, 0, 0, 2, ' ', 0)
		var files int
		var total int64
		err := list(func(item fstree.Item) error {
			if item.Type == archive.Directory {
				fmt.Fprintf(writer, "d\t%04o\t-\t-\t%s/\n", item.Permissions, item.Path)
				return nil
			}
			files++
			total += item.Size
			fmt.Fprintf(writer, "f\t%04o\t%s\t%s\t%s\n",
				item.Permissions, humanize.IBytes(uint64(item.Size)), item.Digest, item.Path)
			return nil
		})
		if flushErr := writer.Flush(); err == nil {
			err = flushErr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(std.out, "%d files, %s\n", files, humanize.IBytes(uint64(total)))
		return nil
	}
}
