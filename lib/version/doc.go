// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which build of aef is running, for
// "aef version" and bug reports.
//
// Release builds stamp the package variables with -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/aef/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/aef
//
// [GitCommit], [GitDirty] and [BuildTime] describe the source tree;
// [Version] is bumped by hand at release time. A plain go install
// leaves them unset, and [Get] then reads the VCS stamp the toolchain
// embeds in the binary instead.
//
// [Info] and [Full] format the same data for people; [Get] returns it
// as a [Details] struct for --format json.
package version
