// Package bench orchestrates one benchmark run: build decision, kernel
// loading, warm-up, the correctness gate, the timed repeat loop and the
// reduction to a report.
package bench

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gemmbench/internal/compile"
	"gemmbench/internal/kernel"
	"gemmbench/internal/report"
	"gemmbench/internal/stats"
)

// Config are the parameters of one benchmark run.
type Config struct {
	// Name labels the resulting report, usually the kernel source basename.
	Name       string
	SourcePath string
	// OutPath is the explicit artifact path; empty means none was given.
	OutPath string
	// ScratchPath receives the artifact when no explicit path was given and a
	// build is needed; it is removed when the run finishes.
	ScratchPath string
	// Compile forces (true) or forbids (false) rebuilding; nil selects auto.
	Compile *bool

	Repeats          int
	Warmup           int
	SkipVerification bool

	Layout         kernel.Layout
	TransA, TransB kernel.Transpose
	Dims           kernel.Dims
	Alpha, Beta    float64
}

// Builder compiles a kernel source into a shared object.
type Builder interface {
	Compile(ctx context.Context, source, out string) error
}

// Handle is a loaded kernel that must be closed after the run.
type Handle interface {
	kernel.Kernel
	Close() error
}

// Driver runs one benchmark. The timed loop is strictly sequential: a kernel
// invocation never overlaps another, and the driver owns the matrix buffers
// exclusively while a call is in flight.
type Driver struct {
	Config   Config
	Compiler Builder
	// Open loads the artifact; swapped out in tests.
	Open func(path string) (Handle, error)
	// Out receives progress lines; nil discards them.
	Out io.Writer
}

// Result carries the reduced report plus the raw samples, which callers may
// persist as a per-repeat history before they are discarded.
type Result struct {
	Report  *report.Report
	Samples []stats.Sample
}

// Run executes the benchmark. Compilation, loading and verification failures
// are fatal to the run and produce no report.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if d.Config.Repeats == 0 {
		return nil, fmt.Errorf("repeats must not be 0")
	}
	out := d.Out
	if out == nil {
		out = io.Discard
	}

	decision, err := d.decide()
	if err != nil {
		return nil, err
	}

	if decision.Scratch {
		if err := os.MkdirAll(filepath.Dir(decision.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
		// The scratch artifact goes away no matter how the run ends.
		defer os.Remove(decision.Path)
	}

	switch decision.Action {
	case compile.Rebuild:
		if err := d.Compiler.Compile(ctx, d.Config.SourcePath, decision.Path); err != nil {
			return nil, err
		}
	case compile.Reuse:
		if _, err := os.Stat(decision.Path); err != nil {
			return nil, fmt.Errorf("artifact not found: %w", err)
		}
	}

	h, err := d.Open(decision.Path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	cfg := d.Config
	m, n, k := cfg.Dims.M(), cfg.Dims.N(), cfg.Dims.K()
	lda, ldb, ldc := kernel.LeadingDims(cfg.Layout, cfg.TransA, cfg.TransB, cfg.Dims)

	a := kernel.FillRandom(m*k, 100, 0.0, 2.0)
	b := kernel.FillRandom(k*n, 200, 0.0, 2.0)
	c := make([]float64, m*n)

	for i := 0; i < cfg.Warmup; i++ {
		h.Call(cfg.Layout, cfg.TransA, cfg.TransB, cfg.Dims, cfg.Alpha, a, lda, b, ldb, cfg.Beta, c, ldc)
	}
	// Warm-up dirtied C; the gate compares against a reference computed from
	// a zero C, so reset before the first timed repeat.
	clear(c)

	samples := make([]stats.Sample, 0, cfg.Repeats)
	for i := 0; i < cfg.Repeats; i++ {
		start := time.Now()
		h.Call(cfg.Layout, cfg.TransA, cfg.TransB, cfg.Dims, cfg.Alpha, a, lda, b, ldb, cfg.Beta, c, ldc)
		elapsed := time.Since(start)

		sample := stats.Sample(elapsed.Nanoseconds())
		fmt.Fprintf(out, "Duration: %.6fms\n", sample.Millis())
		samples = append(samples, sample)

		if i == 0 && !cfg.SkipVerification {
			if err := kernel.Verify(c, cfg.Layout, cfg.TransA, cfg.TransB, cfg.Dims,
				cfg.Alpha, cfg.Beta, a, lda, b, ldb, ldc); err != nil {
				return nil, err
			}
		}
	}

	rep := &report.Report{
		Name:       cfg.Name,
		Dimensions: cfg.Dims,
		Repeats:    cfg.Repeats,
		Alpha:      cfg.Alpha,
		Beta:       cfg.Beta,
		Layout:     cfg.Layout,
		Transpose:  [2]kernel.Transpose{cfg.TransA, cfg.TransB},
		Statistics: report.FromStats(stats.FromSamples(samples)),
	}
	return &Result{Report: rep, Samples: samples}, nil
}

// decide folds the configuration and, in auto mode with an explicit artifact
// path, the filesystem state into a build decision.
func (d *Driver) decide() (compile.Decision, error) {
	in := compile.Inputs{
		SourcePath:  d.Config.SourcePath,
		OutPath:     d.Config.OutPath,
		ScratchPath: d.Config.ScratchPath,
		Compile:     d.Config.Compile,
	}

	if in.OutPath != "" && in.Compile == nil {
		exists, newer, err := compile.Probe(in.SourcePath, in.OutPath)
		if err != nil {
			return compile.Decision{}, err
		}
		in.ArtifactExists = exists
		in.SourceNewer = newer
	}

	return compile.Decide(in), nil
}
