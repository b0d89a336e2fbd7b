package cfr

import (
	"testing"
)

func TestFloatSlicePool_Reuse(t *testing.T) {
	pool := &floatSlicePool{}
	v := pool.alloc(4)
	if len(v) != 4 {
		t.Fatalf("expected slice of len 4, got %d", len(v))
	}

	v[0] = 1.0
	pool.free(v)

	w := pool.alloc(4)
	for i, x := range w {
		if x != 0 {
			t.Errorf("reused slice not zeroed at %d: %v", i, x)
		}
	}
}

func BenchmarkAllocFree(b *testing.B) {
	pool := &floatSlicePool{}
	for i := 0; i < b.N; i++ {
		v := pool.alloc(10)
		pool.free(v)
	}
}
