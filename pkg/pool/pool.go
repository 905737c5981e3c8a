// Package pool provides generic object pooling for the table engine.
// It wraps sync.Pool with type safety, an optional reset hook and usage
// statistics.
//
// Example usage:
//
//	b := pool.BuilderPool.Get()
//	defer pool.BuilderPool.Put(b)
//
//	b.WriteString("2:3.0")
package pool

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// The pool is safe for concurrent use.
//
// Type parameter T can be any type, but pointer types are recommended
// for efficiency.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		gets      int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function is optional and runs before an object returns to the pool.
//
// Example:
//
//	p := New(
//	    func() *Buffer { return &Buffer{data: make([]byte, 0, 1024)} },
//	    func(b *Buffer) { b.data = b.data[:0] },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	atomic.AddInt64(&p.stats.gets, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse, resetting it first.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics.
//
// Returns:
//   - allocated: Total number of objects created by the pool
//   - inUse: Number of objects currently checked out from the pool
//   - hits: Number of Get calls served by a recycled object
//   - misses: Number of Get calls that had to allocate
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	allocated = atomic.LoadInt64(&p.stats.allocated)
	gets := atomic.LoadInt64(&p.stats.gets)
	hits = gets - allocated
	if hits < 0 {
		hits = 0
	}
	return allocated, atomic.LoadInt64(&p.stats.inUse), hits, allocated
}

var (
	// BuilderPool provides pooling for string builders used when rendering
	// rows and attributes for debugging.
	BuilderPool = New(
		func() *strings.Builder {
			return &strings.Builder{}
		},
		func(b *strings.Builder) {
			b.Reset()
		},
	)

	// StringSlicePool provides pooling for []string scratch slices.
	// Slices are pre-allocated with capacity 32.
	StringSlicePool = New(
		func() *[]string {
			s := make([]string, 0, 32)
			return &s
		},
		func(s *[]string) {
			clear(*s)
			*s = (*s)[:0]
		},
	)
)
