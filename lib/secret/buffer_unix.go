// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix && !linux

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// allocate maps an anonymous region outside the Go heap and mlocks it.
// These systems have no portable MADV_DONTDUMP, so the region can
// still appear in a core file.
func allocate(size int) ([]byte, error) {
	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap %d bytes: %w", size, err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock %d bytes: %w", size, err)
	}
	return region, nil
}
