// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the aef binary.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a flag set (either a
// [pflag.FlagSet] factory or a tagged parameter struct bound by
// [FlagsFromParams]), and a Run function. Commands are assembled into a
// tree in cmd/aef/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Run receives a logger from [NewCommandLogger] scoped with the command
// path and writing to the nearest [Command.LogOutput]. Parameter structs
// that implement [Leveler] choose its level.
//
// [Printer] renders the "Add:" and "Write:" progress records with
// lipgloss, honoring the configured color mode. [ExitError] lets a
// command exit non-zero without an extra error line.
package cli
