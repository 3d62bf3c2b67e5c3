// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package fstree

import "io/fs"

// Permissions records nothing on platforms without POSIX modes.
func Permissions(info fs.FileInfo) uint32 {
	return 0
}

// ApplyPermissions is a no-op on platforms without POSIX modes.
func ApplyPermissions(path string, permissions uint32) error {
	return nil
}
