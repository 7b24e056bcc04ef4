package report

import (
	"errors"
	"fmt"
	"math"

	"gemmbench/internal/stats"
)

// ErrNoReports is returned when a merge is attempted over zero reports.
var ErrNoReports = errors.New("no reports to merge")

// IncompatibleError reports a merge across reports whose benchmark
// parameters differ; such reports summarize different experiments and
// combining them is undefined.
type IncompatibleError struct {
	Field string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("cannot merge reports that have different parameters: %s differs", e.Field)
}

func compatible(a, b *Report) error {
	switch {
	case a.Dimensions != b.Dimensions:
		return &IncompatibleError{Field: "dimensions"}
	case a.Alpha != b.Alpha:
		return &IncompatibleError{Field: "alpha"}
	case a.Beta != b.Beta:
		return &IncompatibleError{Field: "beta"}
	case a.Layout != b.Layout:
		return &IncompatibleError{Field: "layout"}
	case a.Transpose != b.Transpose:
		return &IncompatibleError{Field: "transpose"}
	}
	return nil
}

// Merge combines reports sharing identical benchmark parameters into one
// aggregate, working from summaries only; the raw samples are gone.
//
// Repeats are summed and minimum/maximum reduced directly. The averages are
// combined as an incremental weighted mean so reports with different repeat
// counts contribute proportionally. A single middle sample no longer exists
// after merging, so the median survives only when exactly one report is
// merged. The deviation cannot be reconstructed from summaries at all and is
// left zero for multi-report merges.
func Merge(reports []*Report) (*Report, error) {
	if len(reports) == 0 {
		return nil, ErrNoReports
	}

	first := reports[0]
	for _, r := range reports[1:] {
		if err := compatible(first, r); err != nil {
			return nil, err
		}
	}

	merged := &Report{
		Name:       first.Name,
		Dimensions: first.Dimensions,
		Alpha:      first.Alpha,
		Beta:       first.Beta,
		Layout:     first.Layout,
		Transpose:  first.Transpose,
	}

	if len(reports) == 1 {
		merged.Statistics.Median = first.Statistics.Median
		merged.Statistics.DeviationMs = first.Statistics.DeviationMs
	}

	minimum := stats.Sample(math.MaxUint64)
	maximum := stats.Sample(0)
	average := 0.0
	for _, r := range reports {
		if r.Statistics.Maximum > maximum {
			maximum = r.Statistics.Maximum
		}
		if r.Statistics.Minimum < minimum {
			minimum = r.Statistics.Minimum
		}

		merged.Repeats += r.Repeats
		average += (r.Statistics.AverageMs - average) * float64(r.Repeats) / float64(merged.Repeats)
	}

	merged.Statistics.Maximum = maximum
	merged.Statistics.Minimum = minimum
	merged.Statistics.AverageMs = average
	return merged, nil
}
