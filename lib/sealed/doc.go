// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed reads age-encrypted password files.
//
// A password file named by --password-file or password_file may itself
// be encrypted with age (https://age-encryption.org) to an x25519
// recipient, so that archive passwords can live in a configuration
// repository. [IsSealed] recognizes binary and ASCII-armored age files;
// [UnsealFile] decrypts one with an identity file and returns the
// password in a [secret.Buffer] (mmap memory outside the Go heap,
// zeroed on Close).
//
// [Seal] produces such files:
//
//	data, err := sealed.Seal([]byte(password), []string{"age1..."}, true)
//
// Depends on lib/secret for secure memory allocation.
package sealed
