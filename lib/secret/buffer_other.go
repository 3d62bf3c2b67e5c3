// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix && !windows

package secret

// allocate returns a plain heap region. Nothing can be locked here
// (wasm, plan9); the wipe on Close is the only protection.
func allocate(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func release([]byte) error { return nil }
