// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Aef creates, extracts, and lists password-protected archives.
//
//	aef encrypt -i photos -o photos.aef --compress --codec zstd
//	aef list -i photos.aef
//	aef decrypt -i photos.aef -o restore
//	aef list -i photos.aef --verify-against restore
//
// Run "aef --help" for the full command list.
package main
