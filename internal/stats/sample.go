package stats

// Sample is one elapsed kernel invocation, recorded in nanoseconds.
// Samples are immutable once recorded and totally ordered.
type Sample uint64

// Nanos returns the raw nanosecond count.
func (s Sample) Nanos() uint64 {
	return uint64(s)
}

// Millis returns the sample converted to milliseconds.
func (s Sample) Millis() float64 {
	return float64(s) / 1000.0 / 1000.0
}
