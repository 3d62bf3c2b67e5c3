// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/aef/lib/archive"
)

// EnvironmentVariable names the config file when --config is not given.
const EnvironmentVariable = "AEF_CONFIG"

// Config holds defaults for aef commands. Command-line flags override
// every field.
type Config struct {
	// Profile selects an entry of Profiles to merge over the base
	// values. Empty means no profile.
	Profile string `yaml:"profile"`

	// KDF sets the scrypt cost for new archives. Decryption always
	// uses the parameters recorded in the archive header.
	KDF KDFConfig `yaml:"kdf"`

	// Compression configures file data compression for new archives.
	Compression CompressionConfig `yaml:"compression"`

	// Output configures terminal output.
	Output OutputConfig `yaml:"output"`

	// PasswordFile is read instead of prompting when no password flag
	// is given. ${HOME} and ${VAR:-default} are expanded.
	PasswordFile string `yaml:"password_file"`

	// PasswordIdentity is the age identity file used when the password
	// file is age-encrypted. Expanded like PasswordFile.
	PasswordIdentity string `yaml:"password_identity"`

	// Profiles are named partial configurations.
	Profiles map[string]*Overrides `yaml:"profiles,omitempty"`
}

// Overrides contains the fields a profile may replace.
type Overrides struct {
	KDF              *KDFConfig         `yaml:"kdf,omitempty"`
	Compression      *CompressionConfig `yaml:"compression,omitempty"`
	Output           *OutputConfig      `yaml:"output,omitempty"`
	PasswordFile     string             `yaml:"password_file,omitempty"`
	PasswordIdentity string             `yaml:"password_identity,omitempty"`
}

// KDFConfig mirrors the scrypt parameters stored in an archive header.
type KDFConfig struct {
	// LogN is log2 of the CPU/memory cost. Default: 20.
	LogN uint8 `yaml:"log_n"`
	// R is the block size. Default: 8.
	R uint32 `yaml:"r"`
	// P is the parallelization factor. Default: 1.
	P uint32 `yaml:"p"`
}

// CompressionConfig configures compression of file data.
type CompressionConfig struct {
	// Enabled turns compression on for every encrypt.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Codec is one of brotli, zstd, lz4. Default: brotli.
	Codec string `yaml:"codec"`

	// Level is the quality, 0 to 11. Default: 0.
	Level int `yaml:"level"`
}

// OutputConfig configures what commands print.
type OutputConfig struct {
	// Quiet suppresses the per-member Add:/Write: lines.
	Quiet bool `yaml:"quiet"`

	// Color is auto, always, or never. Default: auto (color only on
	// a terminal).
	Color string `yaml:"color"`
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the built-in configuration used when no file is
// given, and the base that a file is merged into.
func Default() *Config {
	params := archive.DefaultKDFParams()
	return &Config{
		KDF: KDFConfig{LogN: params.LogN, R: params.R, P: params.P},
		Compression: CompressionConfig{
			Codec: archive.CompressionBrotli.String(),
			Level: archive.DefaultLevel,
		},
		Output: OutputConfig{Color: ColorAuto},
	}
}

// Load loads the file named by explicitPath, or by AEF_CONFIG when
// explicitPath is empty. With neither set it returns Default(): aef
// needs no configuration file. There is no search path.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, applies the
// selected profile, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.applyProfile(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// applyProfile merges the selected profile over the base values.
// Non-zero fields replace; booleans in a present section always apply.
func (c *Config) applyProfile() error {
	if c.Profile == "" {
		return nil
	}
	overrides, ok := c.Profiles[c.Profile]
	if !ok {
		names := make([]string, 0, len(c.Profiles))
		for name := range c.Profiles {
			names = append(names, name)
		}
		slices.Sort(names)
		return fmt.Errorf("profile %q not defined (have %v)", c.Profile, names)
	}
	if overrides == nil {
		return nil
	}

	if overrides.KDF != nil {
		if overrides.KDF.LogN != 0 {
			c.KDF.LogN = overrides.KDF.LogN
		}
		if overrides.KDF.R != 0 {
			c.KDF.R = overrides.KDF.R
		}
		if overrides.KDF.P != 0 {
			c.KDF.P = overrides.KDF.P
		}
	}

	if overrides.Compression != nil {
		c.Compression.Enabled = overrides.Compression.Enabled
		if overrides.Compression.Codec != "" {
			c.Compression.Codec = overrides.Compression.Codec
		}
		if overrides.Compression.Level != 0 {
			c.Compression.Level = overrides.Compression.Level
		}
	}

	if overrides.Output != nil {
		c.Output.Quiet = overrides.Output.Quiet
		if overrides.Output.Color != "" {
			c.Output.Color = overrides.Output.Color
		}
	}

	if overrides.PasswordFile != "" {
		c.PasswordFile = overrides.PasswordFile
	}
	if overrides.PasswordIdentity != "" {
		c.PasswordIdentity = overrides.PasswordIdentity
	}
	return nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.PasswordFile = expandVars(c.PasswordFile, vars)
	c.PasswordIdentity = expandVars(c.PasswordIdentity, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// KDFParams returns the configured scrypt parameters.
func (c *Config) KDFParams() archive.KDFParams {
	return archive.KDFParams{LogN: c.KDF.LogN, R: c.KDF.R, P: c.KDF.P}
}

// CompressionSettings returns the configured compression, which is
// the zero Compression when disabled.
func (c *Config) CompressionSettings() (archive.Compression, error) {
	if !c.Compression.Enabled {
		return archive.Compression{}, nil
	}
	tag, err := archive.ParseCompressionTag(c.Compression.Codec)
	if err != nil {
		return archive.Compression{}, err
	}
	return archive.Compression{Tag: tag, Level: c.Compression.Level}, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.KDFParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kdf: %w", err))
	}

	tag, err := archive.ParseCompressionTag(c.Compression.Codec)
	if err != nil {
		errs = append(errs, fmt.Errorf("compression.codec: %w", err))
	} else if tag == archive.CompressionNone && c.Compression.Enabled {
		errs = append(errs, fmt.Errorf("compression.codec none contradicts compression.enabled"))
	}
	if c.Compression.Level < archive.MinLevel || c.Compression.Level > archive.MaxLevel {
		errs = append(errs, fmt.Errorf("compression.level must be between %d and %d, got %d",
			archive.MinLevel, archive.MaxLevel, c.Compression.Level))
	}

	colors := []string{ColorAuto, ColorAlways, ColorNever}
	if !slices.Contains(colors, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", colors))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
