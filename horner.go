package horner

import (
	"encoding/binary"
	"hash"
	"unsafe"
)

var (
	_ hash.Hash   = (*Hasher)(nil)
	_ hash.Hash64 = (*Hasher)(nil)
)

// Hasher is the single-lane streaming hasher. The digest is a pure
// function of the seed and the concatenated bytes written, independent of
// how the writes were chunked.
//
// A Hasher is owned by one goroutine at a time. Writing after Sum64 keeps
// extending the same stream; the usual lifecycle is New, any number of
// Writes, one Sum64.
type Hasher struct {
	seed Seed
	acc  uint64
	n    uint64 // total bytes written
	// tail bytes not yet folded into acc. The low n%8 bytes are live,
	// the rest stay zero so the final word decodes zero-padded.
	buf [8]byte
}

// New returns a streaming hasher keyed by seed.
// It panics if the seed's low word is even, supplying one is a
// programming error that silently degrades the hash family.
func New(seed Seed) *Hasher {
	if !seed.valid() {
		panic(ErrEvenSeed)
	}
	return &Hasher{seed: seed, acc: seed.Hi}
}

// Write folds p into the running state. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	written := len(p)

	// Top up a partially filled tail first.
	if off := int(h.n % 8); off > 0 {
		c := copy(h.buf[off:], p)
		h.n += uint64(c)
		p = p[c:]
		if h.n%8 != 0 {
			return written, nil
		}
		h.acc = mix(h.acc, binary.LittleEndian.Uint64(h.buf[:]), h.seed)
		h.buf = [8]byte{}
	}

	// Hot loop: one mix per full word.
	for len(p) >= 8 {
		h.acc = mix(h.acc, binary.LittleEndian.Uint64(p), h.seed)
		h.n += 8
		p = p[8:]
	}

	if len(p) > 0 {
		copy(h.buf[:], p)
		h.n += uint64(len(p))
	}
	return written, nil
}

// WriteString folds s into the running state without copying it.
func (h *Hasher) WriteString(s string) (int, error) {
	return h.Write(s2b(s))
}

// Sum64 returns the digest of everything written so far. It does not
// mutate the hasher and may be called repeatedly.
//
// Any buffered tail is folded first (zero-padded to a word), then the
// total byte count is mixed in unconditionally, so inputs differing only
// by trailing zero bytes differ in their digests.
func (h *Hasher) Sum64() uint64 {
	acc := h.acc
	if h.n%8 != 0 {
		acc = mix(acc, binary.LittleEndian.Uint64(h.buf[:]), h.seed)
	}
	return mix(acc, h.n, h.seed)
}

// Sum appends the big-endian digest to b.
func (h *Hasher) Sum(b []byte) []byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], h.Sum64())
	return append(b, out[:]...)
}

// Reset clears the stream state, keeping the seed. The accumulator
// restarts at the high seed word, so even the empty input digests to a
// seed-dependent value.
func (h *Hasher) Reset() {
	h.acc, h.n, h.buf = h.seed.Hi, 0, [8]byte{}
}

// ResetSeed rekeys the hasher and clears the stream state.
// It panics if the seed's low word is even.
func (h *Hasher) ResetSeed(seed Seed) {
	if !seed.valid() {
		panic(ErrEvenSeed)
	}
	h.seed = seed
	h.Reset()
}

// Seed returns the seed the hasher was keyed with.
func (h *Hasher) Seed() Seed { return h.seed }

func (h *Hasher) Size() int { return 8 }

func (h *Hasher) BlockSize() int { return 8 }

// Sum64 is the one-shot form of New + Write + Sum64.
func Sum64(seed Seed, data []byte) uint64 {
	if !seed.valid() {
		panic(ErrEvenSeed)
	}
	acc := seed.Hi
	n := uint64(len(data))
	for len(data) >= 8 {
		acc = mix(acc, binary.LittleEndian.Uint64(data), seed)
		data = data[8:]
	}
	if len(data) > 0 {
		var tail [8]byte
		copy(tail[:], data)
		acc = mix(acc, binary.LittleEndian.Uint64(tail[:]), seed)
	}
	return mix(acc, n, seed)
}

// SumString64 hashes s without copying it out of the string.
func SumString64(seed Seed, s string) uint64 {
	return Sum64(seed, s2b(s))
}

func s2b(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
