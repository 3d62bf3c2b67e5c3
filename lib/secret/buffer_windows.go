// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// allocate returns a heap region pinned into the working set with
// VirtualLock. The Go collector does not move heap objects, so the
// locked pages stay those of region until release.
func allocate(size int) ([]byte, error) {
	region := make([]byte, size)
	if err := windows.VirtualLock(regionAddress(region), uintptr(size)); err != nil {
		return nil, fmt.Errorf("secret: VirtualLock %d bytes: %w", size, err)
	}
	return region, nil
}

func release(region []byte) error {
	if err := windows.VirtualUnlock(regionAddress(region), uintptr(len(region))); err != nil {
		return fmt.Errorf("secret: VirtualUnlock: %w", err)
	}
	return nil
}

func regionAddress(region []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(region)))
}
