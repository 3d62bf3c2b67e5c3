// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package fstree

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

const permissionMask = 0o7777

// Permissions returns the POSIX mode bits of info, including setuid,
// setgid, and sticky.
func Permissions(info fs.FileInfo) uint32 {
	mode := info.Mode()
	bits := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		bits |= unix.S_ISUID
	}
	if mode&fs.ModeSetgid != 0 {
		bits |= unix.S_ISGID
	}
	if mode&fs.ModeSticky != 0 {
		bits |= unix.S_ISVTX
	}
	return bits
}

// ApplyPermissions sets the POSIX mode bits of path. Bits outside
// 07777 are ignored.
func ApplyPermissions(path string, permissions uint32) error {
	if err := unix.Chmod(path, permissions&permissionMask); err != nil {
		return &fs.PathError{Op: "chmod", Path: path, Err: err}
	}
	return nil
}
