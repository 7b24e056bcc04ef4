package stats

import (
	"math"
	"sync"
)

// Statistics summarizes a set of Samples. Median is nil only on values that
// were merged from several runs, where no single middle sample exists.
type Statistics struct {
	Median      *Sample
	Maximum     Sample
	Minimum     Sample
	AverageMs   float64
	DeviationMs float64
}

// FromSamples reduces a non-empty sample set to its summary statistics.
// Calling it with no samples is a programming error and panics.
//
// Sorting and the millisecond conversion are independent and overlap across
// goroutines; both reductions go through Average so the mean and the
// population deviation stay overflow-safe for arbitrarily many samples.
func FromSamples(samples []Sample) Statistics {
	if len(samples) == 0 {
		panic("stats: FromSamples called with empty sample set")
	}

	var (
		sorted []Sample
		ms     []float64
		wg     sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sorted = sortedCopy(samples)
	}()
	go func() {
		defer wg.Done()
		ms = toMillis(samples)
	}()
	wg.Wait()

	median := sorted[len(sorted)/2]

	avg, _ := Average(ms)

	devs := make([]float64, len(ms))
	forChunks(len(ms), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			d := ms[i] - avg
			devs[i] = d * d
		}
	})
	variance, _ := Average(devs)

	return Statistics{
		Median:      &median,
		Maximum:     sorted[len(sorted)-1],
		Minimum:     sorted[0],
		AverageMs:   avg,
		DeviationMs: math.Sqrt(variance),
	}
}

func toMillis(samples []Sample) []float64 {
	ms := make([]float64, len(samples))
	forChunks(len(samples), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ms[i] = samples[i].Millis()
		}
	})
	return ms
}
