package dict

import (
	"errors"
	"math/bits"

	"github.com/xgzlucario/horner"
)

type Options struct {
	// ShardCount must be a power of two, routing takes the top
	// log2(ShardCount) bits of the key digest.
	ShardCount uint32

	// Default size of the bucket initial.
	IndexSize  int
	BufferSize int

	// Migrate threshold for a bucket to trigger a migration.
	MigrateRatio float64

	// Seed keys the routing hash. The zero value (its low word is
	// even, hence never a legal seed) means draw a random seed, which
	// is what production tables want; fixing it is for tests.
	Seed horner.Seed
}

var DefaultOptions = Options{
	ShardCount:   1024,
	IndexSize:    1024,
	BufferSize:   64 * KB,
	MigrateRatio: 0.4,
}

func validateOptions(options Options) error {
	if options.ShardCount == 0 || bits.OnesCount32(options.ShardCount) != 1 {
		return errors.New("dict/options: shard count must be a power of two")
	}
	if options.IndexSize <= 0 || options.BufferSize <= 0 {
		return errors.New("dict/options: sizes must be positive")
	}
	return nil
}
