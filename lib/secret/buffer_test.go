// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"testing"
)

func TestNew_ZeroFilled(t *testing.T) {
	buffer, err := New(32)
	if err != nil {
		t.Fatalf("New(32) failed: %v", err)
	}
	defer buffer.Close()

	if buffer.Len() != 32 {
		t.Errorf("Len() = %d, want 32", buffer.Len())
	}
	for index, value := range buffer.Bytes() {
		if value != 0 {
			t.Fatalf("byte %d = %d, want 0", index, value)
		}
	}
}

func TestAllocateRelease(t *testing.T) {
	for _, size := range []int{1, 32, 4096, 5000} {
		region, err := allocate(size)
		if err != nil {
			t.Fatalf("allocate(%d) failed: %v", size, err)
		}
		if len(region) != size {
			t.Fatalf("allocate(%d) returned %d bytes", size, len(region))
		}
		for index := range region {
			if region[index] != 0 {
				t.Fatalf("allocate(%d) byte %d = %#x, want 0", size, index, region[index])
			}
			region[index] = 0xA5
		}
		Zero(region)
		if err := release(region); err != nil {
			t.Fatalf("release(%d bytes) failed: %v", size, err)
		}
	}
}

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d) should fail", size)
		}
	}
}

func TestNewFromBytes_ZeroesSource(t *testing.T) {
	source := []byte("correct horse battery staple")

	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	defer buffer.Close()

	if got := string(buffer.Bytes()); got != "correct horse battery staple" {
		t.Errorf("Bytes() = %q", got)
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source byte %d not zeroed: %d", index, value)
		}
	}
}

func TestNewFromBytes_Empty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestBuffer_Equal(t *testing.T) {
	first, err := NewFromBytes([]byte("hunter2"))
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	same, err := NewFromBytes([]byte("hunter2"))
	if err != nil {
		t.Fatal(err)
	}
	defer same.Close()
	different, err := NewFromBytes([]byte("hunter3"))
	if err != nil {
		t.Fatal(err)
	}
	defer different.Close()

	if !first.Equal(same) {
		t.Error("equal contents reported unequal")
	}
	if first.Equal(different) {
		t.Error("different contents reported equal")
	}
	if !first.Equal(first) {
		t.Error("buffer not equal to itself")
	}
}

func TestBuffer_CloseWipesAndIsIdempotent(t *testing.T) {
	buffer, err := NewFromBytes([]byte("derived key material"))
	if err != nil {
		t.Fatal(err)
	}

	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if buffer.region != nil {
		t.Error("region still mapped after Close")
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestBuffer_BytesPanicsAfterClose(t *testing.T) {
	buffer, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	buffer.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from Bytes() after Close")
		}
	}()
	buffer.Bytes()
}

func TestZero(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	Zero(data)
	for _, value := range data {
		if value != 0 {
			t.Fatal("Zero left a non-zero byte")
		}
	}
}
