package stats

import (
	"slices"
	"sync"
)

// sortCutoff is the partition size below which a plain single-goroutine sort
// wins over further splitting.
const sortCutoff = 4096

// sortedCopy returns the samples in ascending order without mutating the
// input, sorting partitions across goroutines and merging pairwise.
func sortedCopy(samples []Sample) []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	scratch := make([]Sample, len(out))
	mergeSort(out, scratch, splitDepth(len(out)))
	return out
}

// splitDepth bounds the fork depth so the number of leaf partitions stays
// near the CPU count.
func splitDepth(n int) int {
	depth := 0
	for p := 1; p < parallelWorkers() && n>>uint(depth) > sortCutoff; p *= 2 {
		depth++
	}
	return depth
}

func mergeSort(data, scratch []Sample, depth int) {
	if depth == 0 || len(data) <= sortCutoff {
		slices.Sort(data)
		return
	}

	mid := len(data) / 2
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mergeSort(data[:mid], scratch[:mid], depth-1)
	}()
	mergeSort(data[mid:], scratch[mid:], depth-1)
	wg.Wait()

	merge(data, mid, scratch)
	copy(data, scratch)
}

// merge combines the two sorted halves data[:mid] and data[mid:] into out.
func merge(data []Sample, mid int, out []Sample) {
	i, j := 0, mid
	for k := range out {
		if i < mid && (j >= len(data) || data[i] <= data[j]) {
			out[k] = data[i]
			i++
		} else {
			out[k] = data[j]
			j++
		}
	}
}
