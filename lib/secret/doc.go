// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps passwords and derived archive keys out of the
// Go heap.
//
// [Buffer] memory depends on the platform:
//
//   - Linux: an anonymous mmap region, mlock'd (never swapped) and
//     marked MADV_DONTDUMP (never written to a core file)
//   - other Unix systems: the same region without MADV_DONTDUMP
//   - Windows: a heap region pinned with VirtualLock
//   - anything else: a plain heap region
//
// Close zeroes the region before releasing it, so owners wrap every
// Buffer in a defer and the wipe happens on every exit path.
//
// Sources:
//
//   - [NewFromBytes] -- moves a heap slice into a Buffer, zeroing the source
//   - [ReadFromPath] -- a password file, or stdin when the path is "-"
//   - [ReadLine] -- the first line of any reader
//   - [ReadTerminal] -- an interactive no-echo prompt with optional confirmation
//
// [Zero] wipes heap copies that cannot be avoided (for example the
// line returned by a terminal read before it is moved).
//
// Depends on golang.org/x/sys (unix, windows) and golang.org/x/term.
package secret
