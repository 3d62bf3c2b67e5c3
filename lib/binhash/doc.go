// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3-256 content digests for archive
// members and the files they were made from.
//
// aef list reports the digest of every member's plaintext, and can
// compare it with a file tree on disk (--verify-against). Both sides
// use the same [Digest] type:
//
//   - [Hasher] -- streaming digest over writes, reused across members
//   - [HashFile] -- streams a file through BLAKE3 with constant memory
//   - [Digest.String] / [ParseDigest] -- canonical lowercase hex form,
//     also used for JSON and CBOR output via encoding.TextMarshaler
//
// Digests are unkeyed and match the output of b3sum.
package binhash
