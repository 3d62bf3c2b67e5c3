// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// release unlocks and unmaps a region from allocate. The caller has
// already zeroed it.
func release(region []byte) error {
	var firstError error
	if err := unix.Munlock(region); err != nil {
		firstError = fmt.Errorf("secret: munlock: %w", err)
	}
	if err := unix.Munmap(region); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap: %w", err)
	}
	return firstError
}
