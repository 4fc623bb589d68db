// Package parallel provides parallel execution utilities for independent
// device evaluations.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// Sequential returns a config that disables parallelism. Used when the
// target device does not declare thread safety.
func Sequential() Config {
	return Config{Enabled: false}
}

// For executes f(i) for i in [0, n) with optional parallelism. Work units
// are whole device evaluations, so there is no chunking: each index is its
// own unit. Falls back to sequential execution when parallelism is disabled
// or there is nothing to gain.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < 2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	workers := min(cfg.NumWorkers, n)
	var wg sync.WaitGroup
	next := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				f(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}
