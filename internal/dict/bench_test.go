package dict

import (
	"testing"
)

const N = 10000

func BenchmarkSet(b *testing.B) {
	b.Run("stdmap", func(b *testing.B) {
		m := make(map[string][]byte, 8)
		for i := 0; i < b.N; i++ {
			k, v := genKV(i)
			m[k] = v
		}
	})
	b.Run("dict", func(b *testing.B) {
		m, _ := New(DefaultOptions)
		for i := 0; i < b.N; i++ {
			k, v := genKV(i)
			m.Set(k, v)
		}
	})
}

func BenchmarkGet(b *testing.B) {
	b.Run("stdmap", func(b *testing.B) {
		m := make(map[string][]byte, 8)
		for i := 0; i < N; i++ {
			k, v := genKV(i)
			m[k] = v
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k, _ := genKV(i % N)
			_ = m[k]
		}
	})
	b.Run("dict", func(b *testing.B) {
		m, _ := New(DefaultOptions)
		for i := 0; i < N; i++ {
			k, v := genKV(i)
			m.Set(k, v)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k, _ := genKV(i % N)
			m.Get(k)
		}
	})
}
