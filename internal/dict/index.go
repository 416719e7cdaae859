package dict

import (
	"math"
	"time"
)

// Idx locates one entry in a shard: the offset where its record starts
// in the shard's append-only log, and the deadline after which the key
// is dead. The value bytes live in the log, only this fixed-size locator
// sits in the swiss index.
type Idx struct {
	offset   uint32
	deadline int64 // unix nanos, noTTL means the key never expires
}

func newIdx(offset int, deadline int64) Idx {
	checkOffset(offset)
	return Idx{offset: uint32(offset), deadline: deadline}
}

func (i Idx) start() int {
	return int(i.offset)
}

func (i Idx) expired() bool {
	return i.deadline > noTTL && i.deadline < time.Now().UnixNano()
}

func (i Idx) expiredWith(nanosec int64) bool {
	return i.deadline > noTTL && i.deadline < nanosec
}

func (i Idx) setTTL(deadline int64) Idx {
	i.deadline = deadline
	return i
}

func (i Idx) setStart(offset int) Idx {
	checkOffset(offset)
	i.offset = uint32(offset)
	return i
}

// shard logs are capped by the uint32 offset width.
func checkOffset(x int) {
	if x > math.MaxUint32 {
		panic("dict: shard log offset overflows uint32")
	}
}
