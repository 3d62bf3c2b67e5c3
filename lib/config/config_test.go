// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/aef/lib/archive"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aef.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.KDFParams() != archive.DefaultKDFParams() {
		t.Errorf("expected default scrypt params, got %s", cfg.KDFParams())
	}
	if cfg.Compression.Enabled {
		t.Error("expected compression disabled by default")
	}
	if cfg.Compression.Codec != "brotli" {
		t.Errorf("expected codec=brotli, got %s", cfg.Compression.Codec)
	}
	if cfg.Output.Color != ColorAuto {
		t.Errorf("expected color=auto, got %s", cfg.Output.Color)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_WithoutFile(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.KDF.LogN != archive.DefaultLogN {
		t.Errorf("expected default log_n, got %d", cfg.KDF.LogN)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	path := writeConfig(t, "kdf:\n  log_n: 16\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.KDF.LogN != 16 {
		t.Errorf("expected log_n=16, got %d", cfg.KDF.LogN)
	}
	if cfg.KDF.R != archive.DefaultR {
		t.Errorf("expected unset r to keep its default, got %d", cfg.KDF.R)
	}
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv(EnvironmentVariable, writeConfig(t, "kdf:\n  log_n: 16\n"))
	explicit := writeConfig(t, "kdf:\n  log_n: 12\n")

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.KDF.LogN != 12 {
		t.Errorf("expected the --config file to win, got log_n=%d", cfg.KDF.LogN)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
kdf:
  log_n: 18
  r: 16
  p: 2

compression:
  enabled: true
  codec: zstd
  level: 7

output:
  quiet: true
  color: never

password_file: /run/secrets/aef.age
password_identity: ${HOME}/.config/aef/identity.txt
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if want := (archive.KDFParams{LogN: 18, R: 16, P: 2}); cfg.KDFParams() != want {
		t.Errorf("expected %s, got %s", want, cfg.KDFParams())
	}
	compression, err := cfg.CompressionSettings()
	if err != nil {
		t.Fatal(err)
	}
	if compression != (archive.Compression{Tag: archive.CompressionZstd, Level: 7}) {
		t.Errorf("unexpected compression %s", compression)
	}
	if !cfg.Output.Quiet || cfg.Output.Color != ColorNever {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	if cfg.PasswordFile != "/run/secrets/aef.age" {
		t.Errorf("expected password_file=/run/secrets/aef.age, got %s", cfg.PasswordFile)
	}
	if want := os.Getenv("HOME") + "/.config/aef/identity.txt"; cfg.PasswordIdentity != want {
		t.Errorf("expected password_identity=%s, got %s", want, cfg.PasswordIdentity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeConfig(t, "kdf: [not, a, mapping\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestProfiles(t *testing.T) {
	content := `
kdf:
  log_n: 20
compression:
  codec: brotli
profile: quick
profiles:
  quick:
    kdf:
      log_n: 14
    compression:
      enabled: true
      codec: lz4
    output:
      quiet: true
  paranoid:
    kdf:
      log_n: 22
`
	cfg, err := LoadFile(writeConfig(t, content))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.KDF.LogN != 14 {
		t.Errorf("expected profile log_n=14, got %d", cfg.KDF.LogN)
	}
	if cfg.KDF.R != archive.DefaultR {
		t.Errorf("profile without r should keep base r, got %d", cfg.KDF.R)
	}
	if !cfg.Compression.Enabled || cfg.Compression.Codec != "lz4" {
		t.Errorf("expected profile compression lz4, got %+v", cfg.Compression)
	}
	if !cfg.Output.Quiet {
		t.Error("expected profile to set quiet")
	}
}

func TestProfiles_Unknown(t *testing.T) {
	content := `
profile: missing
profiles:
  quick: {}
`
	_, err := LoadFile(writeConfig(t, content))
	if err == nil || !strings.Contains(err.Error(), `profile "missing" not defined`) {
		t.Errorf("expected undefined-profile error, got %v", err)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("AEF_SECRETS", "")

	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/.aef-password", "/home/tester/.aef-password"},
		{"${AEF_SECRETS:-/run/secrets}/aef", "/run/secrets/aef"},
		{"/plain/path", "/plain/path"},
	}
	for _, test := range tests {
		cfg, err := LoadFile(writeConfig(t, "password_file: "+test.input+"\n"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.PasswordFile != test.want {
			t.Errorf("password_file %q expanded to %q, want %q", test.input, cfg.PasswordFile, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad scrypt r", func(c *Config) { c.KDF.R = 0 }, "kdf:"},
		{"log_n too large for r", func(c *Config) { c.KDF.LogN = 40; c.KDF.R = 2 }, "kdf:"},
		{"unknown codec", func(c *Config) { c.Compression.Codec = "gzip" }, "compression.codec"},
		{"enabled none", func(c *Config) { c.Compression.Codec = "none"; c.Compression.Enabled = true }, "contradicts"},
		{"level too high", func(c *Config) { c.Compression.Level = 12 }, "compression.level"},
		{"level negative", func(c *Config) { c.Compression.Level = -1 }, "compression.level"},
		{"bad color", func(c *Config) { c.Output.Color = "rainbow" }, "output.color"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, test.want)
			}
		})
	}
}

func TestCompressionSettings_Disabled(t *testing.T) {
	cfg := Default()
	cfg.Compression.Codec = "zstd"

	compression, err := cfg.CompressionSettings()
	if err != nil {
		t.Fatal(err)
	}
	if compression != (archive.Compression{}) {
		t.Errorf("disabled compression returned %s", compression)
	}
}
