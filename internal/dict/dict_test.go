package dict

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xgzlucario/horner"
	"golang.org/x/exp/maps"
)

var testOptions = Options{
	ShardCount:   64,
	IndexSize:    64,
	BufferSize:   4 * KB,
	MigrateRatio: 0.4,
	Seed:         horner.Seed{Lo: 3, Hi: 5},
}

func genKV(i int) (string, []byte) {
	k := fmt.Sprintf("%08x", i)
	return k, []byte(k)
}

func TestOptions(t *testing.T) {
	assert := assert.New(t)

	_, err := New(Options{ShardCount: 3, IndexSize: 1, BufferSize: 1})
	assert.NotNil(err)

	_, err = New(Options{ShardCount: 4, IndexSize: 0, BufferSize: 1})
	assert.NotNil(err)

	dict, err := New(DefaultOptions)
	assert.Nil(err)
	// random seed per dict, low word odd
	assert.Equal(uint64(1), dict.Seed().Lo&1)

	dict2, _ := New(DefaultOptions)
	assert.NotEqual(dict.Seed(), dict2.Seed())
}

func TestSetGet(t *testing.T) {
	assert := assert.New(t)
	dict, _ := New(testOptions)

	assert.True(dict.Set("key1", []byte("hello")))
	val, ttl, ok := dict.Get("key1")
	assert.True(ok)
	assert.Equal([]byte("hello"), val)
	assert.Equal(int64(noTTL), ttl)

	// same-length update goes inplaced
	assert.False(dict.Set("key1", []byte("world")))
	val, _, ok = dict.Get("key1")
	assert.True(ok)
	assert.Equal([]byte("world"), val)

	_, _, ok = dict.Get("none")
	assert.False(ok)
}

func TestMultiSet(t *testing.T) {
	assert := assert.New(t)
	dict, _ := New(testOptions)
	stdmap := map[string][]byte{}

	for range 10000 {
		key, value := genKV(rand.Int())
		stdmap[key] = value
		dict.Set(key, value)
	}
	for _, key := range maps.Keys(stdmap) {
		val, _, ok := dict.Get(key)
		assert.True(ok)
		assert.Equal(stdmap[key], val)
	}
	assert.Equal(len(stdmap), dict.GetStats().Len)
}

func TestRemove(t *testing.T) {
	assert := assert.New(t)
	dict, _ := New(testOptions)

	dict.Set("key1", []byte("v"))
	assert.True(dict.Remove("key1"))
	assert.False(dict.Remove("key1"))
	_, _, ok := dict.Get("key1")
	assert.False(ok)
}

func TestTTL(t *testing.T) {
	assert := assert.New(t)
	dict, _ := New(testOptions)

	dict.SetEx("soon", []byte("v"), time.Millisecond)
	dict.SetEx("later", []byte("v"), time.Minute)
	dict.Set("keep", []byte("v"))

	time.Sleep(5 * time.Millisecond)

	_, _, ok := dict.Get("soon")
	assert.False(ok)
	_, ttl, ok := dict.Get("later")
	assert.True(ok)
	assert.Greater(ttl, time.Now().UnixNano())
	_, _, ok = dict.Get("keep")
	assert.True(ok)

	// retarget ttl
	assert.True(dict.SetTTL("keep", time.Now().Add(time.Minute).UnixNano()))
	assert.False(dict.SetTTL("none", time.Now().UnixNano()))
}

func TestScan(t *testing.T) {
	assert := assert.New(t)
	dict, _ := New(testOptions)

	want := map[string][]byte{}
	for i := range 1000 {
		key, value := genKV(i)
		want[key] = value
		dict.Set(key, value)
	}

	got := map[string][]byte{}
	dict.Scan(func(key string, value []byte, ttl int64) bool {
		got[key] = value
		return true
	})
	assert.Equal(want, got)

	// early stop
	var n int
	dict.Scan(func(string, []byte, int64) bool {
		n++
		return n < 10
	})
	assert.Equal(10, n)
}

func TestEvictAndMigrate(t *testing.T) {
	assert := assert.New(t)
	dict, _ := New(testOptions)

	for i := range 10000 {
		key, value := genKV(i)
		dict.SetEx(key, value, time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)

	for range 10000 {
		dict.EvictExpired()
	}
	stats := dict.GetStats()
	assert.Less(stats.Len, 10000)
	assert.Greater(stats.Migrates, uint64(0))
}

func TestRoutingDeterminism(t *testing.T) {
	assert := assert.New(t)

	// two dicts sharing a fixed seed route identically
	a, _ := New(testOptions)
	b, _ := New(testOptions)
	for i := range 100 {
		key, _ := genKV(i)
		ha := horner.SumString64(a.Seed(), key)
		hb := horner.SumString64(b.Seed(), key)
		assert.Equal(ha>>a.shift, hb>>b.shift)
	}
}

func TestStats(t *testing.T) {
	assert := assert.New(t)
	dict, _ := New(testOptions)

	for i := range 100 {
		key, value := genKV(i)
		dict.Set(key, value)
	}
	// rewrites with a longer value leave dead entries behind
	for i := range 50 {
		key, _ := genKV(i)
		dict.Set(key, []byte("a longer value than before"))
	}

	stats := dict.GetStats()
	assert.Equal(100, stats.Len)
	assert.Greater(stats.Alloc, uint64(0))
	assert.Greater(stats.Unused, uint64(0))
	assert.Greater(stats.UnusedRate(), 0.0)
}
