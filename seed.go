package horner

import (
	"errors"
	"math/bits"
	"math/rand/v2"
)

// ErrEvenSeed is returned by NewSeed when the low seed word is even.
var ErrEvenSeed = errors.New("horner: low seed word must be odd")

// Seed keys one member of the hash family. Lo and Hi together form a
// randomly-chosen 128-bit multiplier; Lo holds the least-significant bits
// and must be odd, the multiply-shift construction requires it.
//
// Each hash table (or other keyed consumer) should draw its own seed, a
// process-wide shared seed gives up the per-table collision guarantee.
type Seed struct {
	Lo, Hi uint64
}

// NewSeed builds a seed from two words, rejecting an even low word.
func NewSeed(lo, hi uint64) (Seed, error) {
	if lo&1 == 0 {
		return Seed{}, ErrEvenSeed
	}
	return Seed{Lo: lo, Hi: hi}, nil
}

// RandomSeed draws a fresh seed, forcing the low word odd.
func RandomSeed() Seed {
	return Seed{Lo: rand.Uint64() | 1, Hi: rand.Uint64()}
}

// valid reports whether s satisfies the oddness invariant.
func (s Seed) valid() bool { return s.Lo&1 == 1 }

// mix folds one 64-bit word into the accumulator:
//
//	mix(acc, w) = w*Lo + acc*Hi + high64(acc*Lo)  (mod 2^64)
//
// where high64 is the upper half of the full 128-bit product. The high
// product bits carry the distribution quality, the wrapping adds are
// intentional. The prior accumulator feeds back through the seeded
// product, so the digest depends on where each word sits in the stream,
// not just on the multiset of words. Note mix(0, w) is w*Lo, not w, so a
// first block is never loaded into the accumulator directly, it is mixed
// like any other.
func mix(acc, word uint64, seed Seed) uint64 {
	hi, _ := bits.Mul64(acc, seed.Lo)
	return word*seed.Lo + acc*seed.Hi + hi
}
