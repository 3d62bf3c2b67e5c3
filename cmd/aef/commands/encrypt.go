// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/aef/cmd/aef/cli"
	"github.com/bureau-foundation/aef/lib/archive"
	"github.com/bureau-foundation/aef/lib/config"
	"github.com/bureau-foundation/aef/lib/fstree"
)

// archiveExtension is appended to the input name when -o is omitted.
const archiveExtension = ".aef"

type encryptParams struct {
	commonParams
	passwordParams
	Input       string `json:"input"        flag:"input,i"       desc:"file or directory to archive (required)"`
	Output      string `json:"output"       flag:"output,o"      desc:"archive to create, - for stdout (default: INPUT.aef)"`
	Compress    string `json:"compress"     flag:"compress"      desc:"compress file data, optionally at quality LEVEL 0-11" optional:"default"`
	Codec       string `json:"codec"        flag:"codec"         desc:"compression codec: brotli, zstd, lz4 (default from config, else brotli)"`
	ScryptLogN  uint   `json:"scrypt_log_n" flag:"scrypt-log-n"  desc:"scrypt CPU/memory cost as log2(N) (default from config, else 20)"`
	ScryptR     uint   `json:"scrypt_r"     flag:"scrypt-r"      desc:"scrypt block size (default from config, else 8)"`
	ScryptP     uint   `json:"scrypt_p"     flag:"scrypt-p"      desc:"scrypt parallelization (default from config, else 1)"`
	DeleteInput bool   `json:"delete_input" flag:"delete-input"  desc:"remove the input after the archive is written"`
	Quiet       bool   `json:"quiet"        flag:"quiet,q"       desc:"do not print a record per member"`
}

func encryptCommand(std streams) *cli.Command {
	var params encryptParams

	return &cli.Command{
		Name:    "encrypt",
		Summary: "Pack a file or directory into an encrypted archive",
		Description: `Pack a file or directory tree into a password-protected archive.

The password is stretched with scrypt into an AES-256-GCM key. Every
directory and regular file under INPUT is stored with its permission
bits; symbolic links and special files are skipped with a notice.

The password comes from --password, --password-file, the configured
password_file, or an interactive prompt (asked twice), in that order.

The output file is never overwritten. With --delete-input the input
is removed only after the archive has been written and synced.`,
		Usage: "aef encrypt -i PATH [-o FILE|-] [flags]",
		Examples: []cli.Example{
			{
				Description: "Archive a directory, prompting for the password",
				Command:     "aef encrypt -i photos",
			},
			{
				Description: "Compress with zstd at quality 7 and stream to another host",
				Command:     "aef encrypt -i photos --compress=7 --codec zstd --password-file pw.txt -o - | ssh backup 'cat > photos.aef'",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q (use -i to name the input)", args[0])
			}
			return runEncrypt(ctx, &params, std, logger)
		},
	}
}

func runEncrypt(ctx context.Context, params *encryptParams, std streams, logger *slog.Logger) error {
	if params.Input == "" {
		return fmt.Errorf("--input is required")
	}
	input := filepath.Clean(params.Input)
	if _, err := os.Lstat(input); err != nil {
		return fmt.Errorf("input: %w", err)
	}

	output := params.Output
	if output == "" {
		output = input + archiveExtension
	}
	if output == "-" && params.PasswordFile == "-" {
		return fmt.Errorf("--password-file - cannot be combined with an archive on stdout")
	}
	if output != "-" && isWithin(output, input) {
		return fmt.Errorf("output %s is inside the input %s", output, input)
	}

	cfg, err := params.loadConfig(logger)
	if err != nil {
		return err
	}
	kdfParams, compression, err := params.settings(cfg)
	if err != nil {
		return err
	}

	password, err := params.readPassword(cfg, std, true)
	if err != nil {
		return err
	}
	defer password.Close()

	out, err := createOutput(output, std)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			out.Abort()
		}
	}()

	logger = logger.With("input", input, "output", output)
	logger.Debug("deriving key", "kdf", kdfParams, "compression", compression)

	encoder, err := archive.NewEncoder(out, password.Bytes(), kdfParams, compression)
	if err != nil {
		return err
	}
	defer encoder.Close()

	printer := newPrinter(recordWriter(std, output == "-"), cfg, params.Quiet)
	var members, skipped int
	var plaintext int64
	observer := func(event fstree.Event) {
		switch event.Action {
		case fstree.ActionAdd:
			members++
			plaintext += event.Size
			if printer != nil {
				printer.Record("Add", event.Path, event.Type == archive.Directory)
			}
		case fstree.ActionSkip:
			skipped++
			logger.Debug("skipping member", "path", event.Path, "reason", event.Reason)
			if printer != nil {
				printer.Skip(event.Path, event.Reason)
			}
		}
	}

	if err := fstree.Pack(ctx, encoder, input, observer); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	if err := out.Commit(); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	committed = true

	logger.Info("archive written",
		"members", members,
		"skipped", skipped,
		"plaintext", humanize.IBytes(uint64(plaintext)),
	)

	if params.DeleteInput {
		if err := os.RemoveAll(input); err != nil {
			return fmt.Errorf("deleting input: %w", err)
		}
		logger.Info("input deleted")
	}
	return nil
}

// settings merges the scrypt and compression flags over the
// configuration.
func (p *encryptParams) settings(cfg *config.Config) (archive.KDFParams, archive.Compression, error) {
	kdfParams := cfg.KDFParams()
	if p.ScryptLogN != 0 {
		if p.ScryptLogN > 63 {
			return archive.KDFParams{}, archive.Compression{}, fmt.Errorf("--scrypt-log-n %d out of range", p.ScryptLogN)
		}
		kdfParams.LogN = uint8(p.ScryptLogN)
	}
	if p.ScryptR > math.MaxUint32 || p.ScryptP > math.MaxUint32 {
		return archive.KDFParams{}, archive.Compression{}, fmt.Errorf("--scrypt-r and --scrypt-p must fit in 32 bits")
	}
	if p.ScryptR != 0 {
		kdfParams.R = uint32(p.ScryptR)
	}
	if p.ScryptP != 0 {
		kdfParams.P = uint32(p.ScryptP)
	}
	if err := kdfParams.Validate(); err != nil {
		return archive.KDFParams{}, archive.Compression{}, err
	}

	enabled := cfg.Compression.Enabled
	codec := cfg.Compression.Codec
	level := cfg.Compression.Level
	if p.Codec != "" {
		codec = p.Codec
	}
	switch p.Compress {
	case "":
	case "default":
		enabled = true
	default:
		parsed, err := strconv.Atoi(p.Compress)
		if err != nil {
			return archive.KDFParams{}, archive.Compression{}, fmt.Errorf("--compress level %q is not a number", p.Compress)
		}
		enabled = true
		level = parsed
	}
	if !enabled {
		if p.Codec != "" {
			return archive.KDFParams{}, archive.Compression{}, fmt.Errorf("--codec requires --compress")
		}
		return kdfParams, archive.Compression{}, nil
	}

	tag, err := archive.ParseCompressionTag(codec)
	if err != nil {
		return archive.KDFParams{}, archive.Compression{}, err
	}
	compression := archive.Compression{Tag: tag, Level: level}
	if err := compression.Validate(); err != nil {
		return archive.KDFParams{}, archive.Compression{}, err
	}
	return kdfParams, compression, nil
}

// isWithin reports whether path lies inside dir, so that an archive is
// never written into the tree it is reading.
func isWithin(path, dir string) bool {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absoluteDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	relative, err := filepath.Rel(absoluteDir, absolutePath)
	if err != nil {
		return false
	}
	return relative != ".." && !strings.HasPrefix(relative, ".."+string(filepath.Separator))
}
