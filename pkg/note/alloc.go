package note

import (
	pool "github.com/libp2p/go-buffer-pool"
)

// Allocator provides the memory owned notes live in.
//
// Alloc returns a slice of exactly size bytes. Realloc returns a slice of
// exactly size bytes holding the first size bytes of buf, after which buf
// must not be used. Free returns a buffer obtained from Alloc or Realloc.
type Allocator interface {
	Alloc(size int) []byte
	Realloc(buf []byte, size int) []byte
	Free(buf []byte)
}

// DefaultAllocator recycles decode scratch buffers through a shared pool.
var DefaultAllocator Allocator = PoolAllocator{}

// HeapAllocator allocates from the Go heap and leaves freeing to the GC.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(size int) []byte {
	return make([]byte, size)
}

func (HeapAllocator) Realloc(buf []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, buf)
	return out
}

func (HeapAllocator) Free([]byte) {}

// PoolAllocator draws buffers from a go-buffer-pool. A nil Pool means the
// package global pool.
type PoolAllocator struct {
	Pool *pool.BufferPool
}

func (a PoolAllocator) Alloc(size int) []byte {
	return a.pool().Get(size)
}

func (a PoolAllocator) Realloc(buf []byte, size int) []byte {
	if size == len(buf) {
		return buf
	}
	out := a.pool().Get(size)
	copy(out, buf)
	a.pool().Put(buf)
	return out
}

func (a PoolAllocator) Free(buf []byte) {
	a.pool().Put(buf)
}

func (a PoolAllocator) pool() *pool.BufferPool {
	if a.Pool == nil {
		return pool.GlobalPool
	}
	return a.Pool
}
