package pkg

import (
	"sync"
	"sync/atomic"
)

// BufferPool recycles the byte logs the dict shards append into, so a
// shard migration reuses the old shard's capacity instead of allocating.
type BufferPool struct {
	pool      sync.Pool
	miss, hit atomic.Uint64
}

func NewBufferPool() *BufferPool {
	p := &BufferPool{}
	p.pool.New = func() any { return new([]byte) }
	return p
}

// Get returns a buffer with length want.
func (p *BufferPool) Get(want int) []byte {
	buf := p.pool.Get().(*[]byte)
	if cap(*buf) < want {
		*buf = make([]byte, want)
		p.miss.Add(1)
	} else {
		*buf = (*buf)[:want]
		p.hit.Add(1)
	}
	return *buf
}

// Put hands the buffer back for reuse.
func (p *BufferPool) Put(b []byte) {
	p.pool.Put(&b)
}

func (p *BufferPool) Hit() uint64  { return p.hit.Load() }
func (p *BufferPool) Miss() uint64 { return p.miss.Load() }
