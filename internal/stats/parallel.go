package stats

import (
	"runtime"
	"sync"
)

// parallelCutoff is the slice length below which fan-out costs more than it
// saves and work is done on the calling goroutine.
const parallelCutoff = 2048

func parallelWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// forChunks splits [0, n) into one contiguous range per worker and runs fn on
// each range concurrently, returning once every range has completed. fn must
// only touch its own range.
func forChunks(n int, fn func(lo, hi int)) {
	if n < parallelCutoff {
		fn(0, n)
		return
	}

	workers := parallelWorkers()
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
