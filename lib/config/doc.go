// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for aef.
//
// Configuration is optional. When used, it is loaded from a single file
// named by the --config flag or the AEF_CONFIG environment variable
// (via [Load]). There is no ~/.config discovery and no file search, so
// the defaults a command runs with are always visible on its command
// line or in one named file.
//
// A file may define named profiles that override base values when
// [Config].Profile selects them:
//
//	kdf:
//	  log_n: 20
//	compression:
//	  codec: zstd
//	profile: quick
//	profiles:
//	  quick:
//	    kdf: {log_n: 14}
//	    compression: {enabled: true, codec: lz4}
//
// Variable expansion is performed on password_file after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. Environment
// variables do not otherwise override config values, and flags always
// win over the file.
package config
