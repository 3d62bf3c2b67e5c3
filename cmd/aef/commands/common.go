// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/aef/cmd/aef/cli"
	"github.com/bureau-foundation/aef/lib/config"
	"github.com/bureau-foundation/aef/lib/sealed"
	"github.com/bureau-foundation/aef/lib/secret"
)

// streams are the process's standard streams. Tests substitute buffers.
type streams struct {
	in       io.Reader
	out      io.Writer
	err      io.Writer
	terminal int // file descriptor used for password prompts
}

func standardStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, err: os.Stderr, terminal: int(os.Stdin.Fd())}
}

// commonParams are the flags every command accepts.
type commonParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"configuration file (default: $AEF_CONFIG)"`
	Verbose    bool   `json:"-" flag:"verbose,v" desc:"log debug detail to stderr"`
}

// LogLevel implements [cli.Leveler].
func (p *commonParams) LogLevel() slog.Level {
	if p.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadConfig loads and validates the configuration file, if any.
func (p *commonParams) loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(p.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("configuration loaded",
		"profile", cfg.Profile,
		"kdf", cfg.KDFParams(),
		"codec", cfg.Compression.Codec,
	)
	return cfg, nil
}

// passwordParams select where the archive password comes from.
type passwordParams struct {
	Password         string `json:"-" flag:"password,p" desc:"archive password (visible to other users; prefer --password-file)"`
	PasswordFile     string `json:"-" flag:"password-file" desc:"read the password from FILE, or the first line of stdin for -"`
	PasswordIdentity string `json:"-" flag:"password-identity" desc:"age identity file for an age-encrypted password file"`
}

// readPassword resolves the password from, in order: --password,
// --password-file, the configured password_file, or an interactive
// prompt on the terminal. A password file may be age-encrypted; it is
// then decrypted with --password-identity or password_identity.
// confirm asks for the password twice at the prompt. The caller must
// Close the returned buffer.
func (p *passwordParams) readPassword(cfg *config.Config, std streams, confirm bool) (*secret.Buffer, error) {
	switch {
	case p.Password != "":
		return secret.NewFromBytes([]byte(p.Password))
	case p.PasswordFile != "":
		return readPasswordFile(p.PasswordFile, p.identity(cfg), std.in)
	case cfg.PasswordFile != "":
		return readPasswordFile(cfg.PasswordFile, p.identity(cfg), std.in)
	}

	confirmLabel := ""
	if confirm {
		confirmLabel = "Confirm password"
	}
	buffer, err := secret.ReadTerminal(std.terminal, std.err, "Password", confirmLabel)
	if errors.Is(err, secret.ErrMismatch) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return buffer, err
}

func (p *passwordParams) identity(cfg *config.Config) string {
	if p.PasswordIdentity != "" {
		return p.PasswordIdentity
	}
	return cfg.PasswordIdentity
}

// readPasswordFile reads the password from path, or from the first
// line of stdin when path is "-".
func readPasswordFile(path, identityPath string, stdin io.Reader) (*secret.Buffer, error) {
	if path == "-" {
		buffer, err := secret.ReadLine(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading password from stdin: %w", err)
		}
		return buffer, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading password file: %w", err)
	}
	defer secret.Zero(data)

	if !sealed.IsSealed(data) {
		buffer, err := secret.NewTrimmed(data)
		if err != nil {
			return nil, fmt.Errorf("password file %s: %w", path, err)
		}
		return buffer, nil
	}
	if identityPath == "" {
		return nil, fmt.Errorf("password file %s is age-encrypted; --password-identity is required", path)
	}
	buffer, err := sealed.UnsealFile(data, identityPath)
	if err != nil {
		return nil, fmt.Errorf("password file %s: %w", path, err)
	}
	return buffer, nil
}

// openInput opens path for reading, or returns stdin for "-".
func openInput(path string, std streams) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(std.in), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// outputFile is a newly created archive file, removed again if the
// command fails before Commit.
type outputFile struct {
	io.Writer
	file *os.File
	path string
}

// createOutput creates path exclusively, refusing to overwrite an
// existing file. "-" writes to stdout.
func createOutput(path string, std streams) (*outputFile, error) {
	if path == "-" {
		return &outputFile{Writer: std.out}, nil
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("output %s already exists", path)
		}
		return nil, err
	}
	return &outputFile{Writer: file, file: file, path: path}, nil
}

// Commit syncs and closes the file.
func (o *outputFile) Commit() error {
	if o.file == nil {
		return nil
	}
	if err := o.file.Sync(); err != nil {
		o.file.Close()
		return err
	}
	return o.file.Close()
}

// Abort closes and removes a partially written file.
func (o *outputFile) Abort() {
	if o.file == nil {
		return
	}
	o.file.Close()
	os.Remove(o.path)
}

// recordWriter returns where the Add:/Write: records go: stdout,
// unless the archive itself is being written there.
func recordWriter(std streams, archiveOnStdout bool) io.Writer {
	if archiveOnStdout {
		return std.err
	}
	return std.out
}

// newPrinter builds the record printer, or returns nil when records
// are suppressed.
func newPrinter(w io.Writer, cfg *config.Config, quiet bool) *cli.Printer {
	if quiet || cfg.Output.Quiet {
		return nil
	}
	return cli.NewPrinter(w, cfg.Output.Color)
}
