// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fstree connects the archive codec to the local filesystem.
//
// [Walk] turns a file or directory into an ordered sequence of
// [Record] values whose RelativeSuffix starts with the root's base
// name, so encrypting /home/me/photos stores "photos/…". [Pack] feeds
// those records into an archive encoder, [Unpack] recreates the tree
// under a destination directory, and [List] reports every member with
// its size and BLAKE3 digest without touching the disk.
//
// Only directories and regular files are archived. Symlinks, devices,
// sockets, and named pipes are reported to the [Observer] as skipped.
//
// Permission bits are carried as the POSIX mode (including setuid,
// setgid, and sticky) on Unix. Other platforms record and apply
// nothing.
package fstree
