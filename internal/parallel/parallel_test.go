package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 100

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	order := make([]int, 0, 10)
	For(10, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, got := range order {
		if got != i {
			t.Fatalf("sequential mode must preserve order, got %v", order)
		}
	}
}

func TestFor_EveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4}

	hits := make([]int64, 32)
	For(len(hits), func(i int) {
		atomic.AddInt64(&hits[i], 1)
	}, cfg)

	for i, h := range hits {
		if h != 1 {
			t.Errorf("index %d executed %d times, want 1", i, h)
		}
	}
}
