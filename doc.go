// Package horner provides seeded, streaming, non-cryptographic 64-bit
// hashing by iterated multiply-shift mixing, in the style of
// Dietzfelbinger et al.'s multiply-shift hashing. The iteration resembles
// Horner's method for evaluating polynomials, hence the name.
//
// The hash is keyed by a 128-bit seed whose low word must be odd. For a
// random seed, any two distinct inputs collide with bounded probability
// (universal hashing); this is a statistical guarantee for hash tables,
// not resistance against an adversary.
//
// The high bits of the digest are the better-distributed ones. Consumers
// sizing a table with a power-of-two bucket count should shift the digest
// right, not mask its low bits.
//
// Two variants are provided: [Hasher] runs a single accumulator chain,
// [Hasher4] runs four independent lanes for higher single-key throughput.
// They are distinct members of the hash family and produce different
// digests for the same seed and input.
package horner
