// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"fmt"
	"sync"
)

// Buffer holds a password or a derived key in memory that is zeroed on
// Close. Where the platform allows it the memory is also locked against
// swapping and kept out of core dumps; see allocate.
//
// A Buffer must not be copied. After Close, Bytes panics.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	size   int
	closed bool
}

// New returns a zero-filled Buffer of size bytes. The caller owns the
// Buffer and must Close it.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}
	region, err := allocate(size)
	if err != nil {
		return nil, err
	}
	return &Buffer{region: region, size: size}, nil
}

// NewFromBytes moves source into a new Buffer: the bytes are copied
// into the protected region and source is zeroed in place.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}

	buffer, err := New(len(source))
	if err != nil {
		Zero(source)
		return nil, err
	}
	copy(buffer.region, source)
	Zero(source)
	return buffer, nil
}

// Bytes returns the protected bytes. The slice aliases the buffer's
// region and is invalid after Close.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.region[:b.size]
}

// Len returns the size of the secret in bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Equal reports whether b and other hold the same bytes, in constant
// time with respect to the contents.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == other {
		return true
	}
	return subtle.ConstantTimeCompare(b.Bytes(), other.Bytes()) == 1
}

// Close zeroes the region, then releases it. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	Zero(b.region)
	err := release(b.region)
	b.region = nil
	return err
}

// Zero overwrites data with zeros. Use it for heap copies of secret
// material that cannot live in a Buffer.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}
