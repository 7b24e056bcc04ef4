package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemmbench/internal/kernel"
	"gemmbench/internal/stats"
)

func samplePtr(s stats.Sample) *stats.Sample { return &s }

func makeReport(repeats int, averageMs float64) *Report {
	return &Report{
		Name:       "kernel.c",
		Dimensions: kernel.Dims{100, 100, 100},
		Repeats:    repeats,
		Alpha:      1.0,
		Beta:       0.0,
		Layout:     kernel.RowMajor,
		Transpose:  [2]kernel.Transpose{kernel.NoTrans, kernel.NoTrans},
		Statistics: Statistics{
			Median:      samplePtr(stats.Sample(averageMs * 1e6)),
			Maximum:     stats.Sample(averageMs * 2e6),
			Minimum:     stats.Sample(averageMs * 0.5e6),
			AverageMs:   averageMs,
			DeviationMs: 0.1,
		},
	}
}

func TestMerge_Empty(t *testing.T) {
	_, err := Merge(nil)
	assert.ErrorIs(t, err, ErrNoReports)
}

func TestMerge_SingleKeepsMedian(t *testing.T) {
	r := makeReport(10, 5.0)

	merged, err := Merge([]*Report{r})
	require.NoError(t, err)

	require.NotNil(t, merged.Statistics.Median)
	assert.Equal(t, *r.Statistics.Median, *merged.Statistics.Median)
	assert.Equal(t, 10, merged.Repeats)
	assert.InDelta(t, 5.0, merged.Statistics.AverageMs, 1e-12)
	assert.InDelta(t, 0.1, merged.Statistics.DeviationMs, 1e-12)
}

func TestMerge_SameAverageIsPreserved(t *testing.T) {
	a := makeReport(10, 5.0)
	b := makeReport(10, 5.0)

	merged, err := Merge([]*Report{a, b})
	require.NoError(t, err)

	assert.Equal(t, 20, merged.Repeats)
	assert.InDelta(t, 5.0, merged.Statistics.AverageMs, 1e-12)
	assert.Nil(t, merged.Statistics.Median, "merging several runs loses the median")
	assert.Zero(t, merged.Statistics.DeviationMs, "deviation is not mergeable from summaries")
}

func TestMerge_WeightedAverage(t *testing.T) {
	a := makeReport(10, 4.0)
	b := makeReport(10, 6.0)

	merged, err := Merge([]*Report{a, b})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, merged.Statistics.AverageMs, 1e-12)

	// Unequal weights: 30 repeats at 4ms and 10 at 8ms average to 5ms.
	c := makeReport(30, 4.0)
	d := makeReport(10, 8.0)
	merged, err = Merge([]*Report{c, d})
	require.NoError(t, err)
	assert.Equal(t, 40, merged.Repeats)
	assert.InDelta(t, 5.0, merged.Statistics.AverageMs, 1e-12)
}

func TestMerge_MinMaxReduced(t *testing.T) {
	a := makeReport(10, 4.0)
	b := makeReport(10, 6.0)

	merged, err := Merge([]*Report{a, b})
	require.NoError(t, err)
	assert.Equal(t, b.Statistics.Maximum, merged.Statistics.Maximum)
	assert.Equal(t, a.Statistics.Minimum, merged.Statistics.Minimum)
}

func TestMerge_IncompatibleParameters(t *testing.T) {
	base := makeReport(10, 5.0)

	for _, tc := range []struct {
		field  string
		mutate func(*Report)
	}{
		{"dimensions", func(r *Report) { r.Dimensions = kernel.Dims{200, 100, 100} }},
		{"alpha", func(r *Report) { r.Alpha = 2.0 }},
		{"beta", func(r *Report) { r.Beta = 1.0 }},
		{"layout", func(r *Report) { r.Layout = kernel.ColMajor }},
		{"transpose", func(r *Report) { r.Transpose[0] = kernel.Trans }},
	} {
		t.Run(tc.field, func(t *testing.T) {
			other := makeReport(10, 5.0)
			tc.mutate(other)

			_, err := Merge([]*Report{base, other})
			var ierr *IncompatibleError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, tc.field, ierr.Field)
		})
	}
}

func TestMerge_DifferentNamesStillMerge(t *testing.T) {
	// The kernel name is informational; only the benchmark parameters gate
	// the merge.
	a := makeReport(10, 4.0)
	b := makeReport(10, 6.0)
	b.Name = "other.c"

	merged, err := Merge([]*Report{a, b})
	require.NoError(t, err)
	assert.Equal(t, a.Name, merged.Name)
}
