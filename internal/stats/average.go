package stats

// Average computes the arithmetic mean of values by recursive pairwise
// folding. It returns false iff values is empty.
//
// Each level halves both operands before adding (`v[2i]/2 + v[2i+1]/2`), so
// every intermediate stays within the magnitude of the inputs and the result
// does not overflow or degrade for very large sample counts, unlike a naive
// running sum. Pair folds within a level are independent and run across CPUs.
func Average(values []float64) (float64, bool) {
	switch len(values) {
	case 0:
		return 0, false
	case 1:
		return values[0], true
	case 2:
		return values[0]/2 + values[1]/2, true
	}

	n := len(values) / 2
	pairs := make([]float64, n)
	forChunks(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			pairs[i] = values[2*i]/2 + values[2*i+1]/2
		}
	})

	avg, _ := Average(pairs)

	if len(values)%2 == 1 {
		// The trailing element was left out of the pairing. Fold it back in
		// weighted as one of 2n+1 equally weighted originals:
		// avg = partial*(2n)/(2n+1) + last/(2n+1).
		last := values[len(values)-1]
		avg = (avg*float64(2*n) + last) / float64(2*n+1)
	}
	return avg, true
}
