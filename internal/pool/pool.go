// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pool hands out reusable scratch buffers. A buffer is acquired for
// the duration of one call and released before the call returns; it is never
// shared between goroutines while held.
package pool

import "sync"

// maxRetained caps the capacity of buffers returned to the pool.
const maxRetained = 64 << 10

// Buffer is a scratch slice handle.
type Buffer[T any] struct {
	B []T
}

var (
	units = sync.Pool{New: func() any { return &Buffer[uint16]{B: make([]uint16, 0, 256)} }}
	bytes = sync.Pool{New: func() any { return &Buffer[byte]{B: make([]byte, 0, 512)} }}
)

// Units returns a UTF-16 scratch buffer of length n.
func Units(n int) *Buffer[uint16] {
	b := units.Get().(*Buffer[uint16])
	b.B = grow(b.B, n)
	return b
}

// ReleaseUnits returns b to the pool. b must not be used afterwards.
func ReleaseUnits(b *Buffer[uint16]) {
	if cap(b.B) > maxRetained {
		return
	}
	b.B = b.B[:0]
	units.Put(b)
}

// Bytes returns a byte scratch buffer of length n.
func Bytes(n int) *Buffer[byte] {
	b := bytes.Get().(*Buffer[byte])
	b.B = grow(b.B, n)
	return b
}

// ReleaseBytes returns b to the pool. b must not be used afterwards.
func ReleaseBytes(b *Buffer[byte]) {
	if cap(b.B) > maxRetained {
		return
	}
	b.B = b.B[:0]
	bytes.Put(b)
}

func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
