package pkg

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/swiss"
)

// Allocator recycles swiss map group slabs across dict shard index
// rebuilds (a shard migration closes the old index and opens a new one).
type Allocator[K comparable, V any] struct {
	pool      sync.Pool
	miss, hit atomic.Uint64
}

func NewAllocator[K comparable, V any]() *Allocator[K, V] {
	a := &Allocator[K, V]{}
	a.pool.New = func() any { return new([]swiss.Group[K, V]) }
	return a
}

func (a *Allocator[K, V]) Alloc(want int) []swiss.Group[K, V] {
	buf := a.pool.Get().(*[]swiss.Group[K, V])
	if cap(*buf) < want {
		*buf = make([]swiss.Group[K, V], want)
		a.miss.Add(1)
	} else {
		*buf = (*buf)[:want]
		a.hit.Add(1)
	}
	return *buf
}

func (a *Allocator[K, V]) Free(b []swiss.Group[K, V]) {
	a.pool.Put(&b)
}

func (a *Allocator[K, V]) Hit() uint64  { return a.hit.Load() }
func (a *Allocator[K, V]) Miss() uint64 { return a.miss.Load() }
