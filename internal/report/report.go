// Package report defines the persisted benchmark report, its merge across
// runs and its storage.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"gemmbench/internal/kernel"
	"gemmbench/internal/stats"
)

// Statistics is the persisted summary of one run's samples. Durations are
// stored in nanoseconds, average and deviation in milliseconds. Median is
// null on reports merged from several runs. The wire field name "medium" is
// kept for compatibility with existing report files.
type Statistics struct {
	Median      *stats.Sample `json:"medium"`
	Maximum     stats.Sample  `json:"maximum"`
	Minimum     stats.Sample  `json:"minimum"`
	AverageMs   float64       `json:"average"`
	DeviationMs float64       `json:"deviation"`
}

// FromStats converts the engine's result into its wire form.
func FromStats(s stats.Statistics) Statistics {
	return Statistics{
		Median:      s.Median,
		Maximum:     s.Maximum,
		Minimum:     s.Minimum,
		AverageMs:   s.AverageMs,
		DeviationMs: s.DeviationMs,
	}
}

// Report is the immutable summary of one benchmark run, or of a merge of
// runs that shared identical parameters. Samples themselves are discarded
// once reduced.
type Report struct {
	Name       string              `json:"name"`
	Dimensions kernel.Dims         `json:"dimensions"`
	Repeats    int                 `json:"repeats"`
	Alpha      float64             `json:"alpha"`
	Beta       float64             `json:"beta"`
	Layout     kernel.Layout       `json:"layout"`
	Transpose  [2]kernel.Transpose `json:"transpose"`
	Statistics Statistics          `json:"statistics"`
}

// Summary renders the timing table: median (when present), average, worst,
// best and deviation, each with the achieved ops-per-nanosecond throughput.
func (r *Report) Summary() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 3, ' ', 0)
	ops := r.Dimensions.Ops()

	if r.Statistics.Median != nil {
		med := *r.Statistics.Median
		fmt.Fprintf(w, "Medium\t%.6fms\t%g\n", med.Millis(), ops/float64(med.Nanos()))
	}
	fmt.Fprintf(w, "Average\t%.6fms\t%g\n", r.Statistics.AverageMs, ops/r.Statistics.AverageMs/1000.0/1000.0)
	fmt.Fprintf(w, "Worst\t%.6fms\t%g\n", r.Statistics.Maximum.Millis(), ops/float64(r.Statistics.Maximum.Nanos()))
	fmt.Fprintf(w, "Best\t%.6fms\t%g\n", r.Statistics.Minimum.Millis(), ops/float64(r.Statistics.Minimum.Nanos()))
	fmt.Fprintf(w, "Deviation\t%g\t\n", r.Statistics.DeviationMs)
	w.Flush()
	return sb.String()
}

// Full renders the parameters header followed by the Summary table.
func (r *Report) Full() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", r.Name)
	fmt.Fprintf(&sb, "M: %d, N: %d, K: %d\n", r.Dimensions.M(), r.Dimensions.N(), r.Dimensions.K())
	fmt.Fprintf(&sb, "alpha: %.4f, beta: %.4f\n", r.Alpha, r.Beta)
	fmt.Fprintf(&sb, "Layout: %s\n", r.Layout)
	fmt.Fprintf(&sb, "TransA: %v\n", r.Transpose[0] == kernel.Trans)
	fmt.Fprintf(&sb, "TransB: %v\n", r.Transpose[1] == kernel.Trans)
	sb.WriteString(r.Summary())
	return sb.String()
}
