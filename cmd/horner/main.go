// Command horner prints seeded streaming digests of files or stdin, and
// can dump a bucket histogram over sequential keys to eyeball the output
// distribution.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"hash"
	"io"
	"math/bits"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/mmap"
	"github.com/xgzlucario/horner"
)

func main() {
	var configPath string
	var distKeys int
	flag.StringVar(&configPath, "config", defaultConfigFileName, "config file path")
	flag.IntVar(&distKeys, "dist", 0, "hash n sequential keys and print the bucket histogram")
	flag.Parse()

	if err := initConfig(configPath); err != nil {
		logger.Warn().Msgf("config not loaded, using defaults: %v", err)
	}

	seed := seedFromConfig()
	logger.Debug().
		Uint64("lo", seed.Lo).Uint64("hi", seed.Hi).
		Int("lanes", configGetLanes()).
		Msg("seed ready")

	if distKeys > 0 {
		runDist(seed, distKeys)
		return
	}

	if flag.NArg() == 0 {
		sumReader("-", os.Stdin, seed)
		return
	}
	for _, path := range flag.Args() {
		sumFile(path, seed)
	}
}

func seedFromConfig() horner.Seed {
	lo, hi := configGetSeedLo(), configGetSeedHi()
	if lo == 0 && hi == 0 {
		return horner.RandomSeed()
	}
	seed, err := horner.NewSeed(lo, hi)
	if err != nil {
		logger.Fatal().Msgf("bad seed in config: %v", err)
	}
	return seed
}

func newHasher(seed horner.Seed) hash.Hash64 {
	switch lanes := configGetLanes(); lanes {
	case 1:
		return horner.New(seed)
	case 4:
		return horner.New4(seed)
	default:
		logger.Fatal().Msgf("unsupported lane count: %d", lanes)
		return nil
	}
}

func sumFile(path string, seed horner.Seed) {
	start := time.Now()

	data, err := mmap.Open(path, false)
	if err != nil {
		logger.Error().Msgf("open %s: %v", path, err)
		return
	}
	defer mmap.Close(data)

	h := newHasher(seed)
	h.Write(data)
	fmt.Printf("%016x  %s\n", h.Sum64(), path)

	rate := float64(len(data)) / time.Since(start).Seconds()
	logger.Debug().
		Str("size", humanize.IBytes(uint64(len(data)))).
		Str("rate", humanize.IBytes(uint64(rate))+"/s").
		Msg(path)
}

func sumReader(name string, r io.Reader, seed horner.Seed) {
	h := newHasher(seed)
	n, err := io.Copy(h, r)
	if err != nil {
		logger.Error().Msgf("read %s: %v", name, err)
		return
	}
	fmt.Printf("%016x  %s\n", h.Sum64(), name)
	logger.Debug().Str("size", humanize.IBytes(uint64(n))).Msg(name)
}

// runDist hashes n sequential little-endian keys and prints how they
// fall into the configured bucket count, taken from the top digest bits.
func runDist(seed horner.Seed, n int) {
	buckets := configGetDistBuckets()
	if buckets <= 1 || bits.OnesCount(uint(buckets)) != 1 {
		logger.Fatal().Msgf("dist.buckets must be a power of two, got %d", buckets)
	}
	shift := 64 - bits.TrailingZeros(uint(buckets))

	h := newHasher(seed)
	counts := make([]int, buckets)
	var key [8]byte
	for i := range n {
		binary.LittleEndian.PutUint64(key[:], uint64(i))
		h.Reset()
		h.Write(key[:])
		counts[h.Sum64()>>shift]++
	}

	minc, maxc := counts[0], counts[0]
	for i, c := range counts {
		fmt.Printf("bucket %3d  %d\n", i, c)
		minc, maxc = min(minc, c), max(maxc, c)
	}
	logger.Info().
		Int("keys", n).
		Int("buckets", buckets).
		Str("expect", humanize.Comma(int64(n/buckets))).
		Int("min", minc).Int("max", maxc).
		Msg("distribution")
}
