package bench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemmbench/internal/kernel"
)

type fakeBuilder struct {
	calls []string
	err   error
}

func (f *fakeBuilder) Compile(_ context.Context, source, out string) error {
	f.calls = append(f.calls, out)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(out, []byte("fake artifact"), 0o644)
}

type fakeHandle struct {
	fn     kernel.KernelFunc
	calls  int
	closed bool
}

func (f *fakeHandle) Call(layout kernel.Layout, transA, transB kernel.Transpose, dims kernel.Dims,
	alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	f.calls++
	f.fn(layout, transA, transB, dims, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (f *fakeHandle) Close() error {
	f.closed = true
	return nil
}

// correctKernel behaves like a well-implemented dgemm by delegating to the
// trusted reference.
func correctKernel() *fakeHandle {
	return &fakeHandle{
		fn: func(layout kernel.Layout, transA, transB kernel.Transpose, dims kernel.Dims,
			alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
			copy(c, kernel.Reference(layout, transA, transB, dims, alpha, beta, a, lda, b, ldb, ldc))
		},
	}
}

// brokenKernel produces garbage output.
func brokenKernel() *fakeHandle {
	return &fakeHandle{
		fn: func(_ kernel.Layout, _, _ kernel.Transpose, _ kernel.Dims,
			_ float64, _ []float64, _ int, _ []float64, _ int, _ float64, c []float64, _ int) {
			for i := range c {
				c[i] = 1e9
			}
		},
	}
}

func testConfig(dir string) Config {
	return Config{
		Name:        "kernel.c",
		SourcePath:  filepath.Join(dir, "kernel.c"),
		ScratchPath: filepath.Join(dir, "scratch.so"),
		Repeats:     5,
		Layout:      kernel.RowMajor,
		TransA:      kernel.NoTrans,
		TransB:      kernel.NoTrans,
		Dims:        kernel.Dims{8, 8, 8},
		Alpha:       1.0,
		Beta:        0.0,
	}
}

func TestDriver_AutoModeBuildsToScratchAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	builder := &fakeBuilder{}
	handle := correctKernel()

	var openedPath string
	d := &Driver{
		Config:   testConfig(dir),
		Compiler: builder,
		Open: func(path string) (Handle, error) {
			openedPath = path
			return handle, nil
		},
	}

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{d.Config.ScratchPath}, builder.calls)
	assert.Equal(t, d.Config.ScratchPath, openedPath)
	assert.NoFileExists(t, d.Config.ScratchPath, "scratch artifact must be removed")
	assert.True(t, handle.closed)

	assert.Equal(t, 5, handle.calls)
	assert.Len(t, res.Samples, 5)
	assert.Equal(t, 5, res.Report.Repeats)
	require.NotNil(t, res.Report.Statistics.Median)
	assert.Equal(t, "kernel.c", res.Report.Name)
}

func TestDriver_WarmupRunsAreNotTimed(t *testing.T) {
	dir := t.TempDir()
	handle := correctKernel()

	cfg := testConfig(dir)
	cfg.Warmup = 3
	cfg.Beta = 0.5 // accumulating kernel: warm-up must not poison the gate

	d := &Driver{
		Config:   cfg,
		Compiler: &fakeBuilder{},
		Open:     func(string) (Handle, error) { return handle, nil },
	}

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3+5, handle.calls)
	assert.Len(t, res.Samples, 5)
}

func TestDriver_VerificationFailureIsFatal(t *testing.T) {
	dir := t.TempDir()

	d := &Driver{
		Config:   testConfig(dir),
		Compiler: &fakeBuilder{},
		Open:     func(string) (Handle, error) { return brokenKernel(), nil },
	}

	res, err := d.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res, "no report after a failed gate")

	var verr *kernel.VerificationError
	assert.ErrorAs(t, err, &verr)
}

func TestDriver_SkipVerification(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig(dir)
	cfg.SkipVerification = true

	d := &Driver{
		Config:   cfg,
		Compiler: &fakeBuilder{},
		Open:     func(string) (Handle, error) { return brokenKernel(), nil },
	}

	res, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Report)
}

func TestDriver_ExplicitReuseRequiresArtifact(t *testing.T) {
	dir := t.TempDir()
	noCompile := false
	builder := &fakeBuilder{}

	cfg := testConfig(dir)
	cfg.OutPath = filepath.Join(dir, "missing.so")
	cfg.Compile = &noCompile

	d := &Driver{
		Config:   cfg,
		Compiler: builder,
		Open:     func(string) (Handle, error) { return correctKernel(), nil },
	}

	_, err := d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact not found")
	assert.Empty(t, builder.calls)
}

func TestDriver_AutoReusesFreshArtifact(t *testing.T) {
	dir := t.TempDir()
	builder := &fakeBuilder{}

	cfg := testConfig(dir)
	cfg.OutPath = filepath.Join(dir, "kernel.so")
	require.NoError(t, os.WriteFile(cfg.SourcePath, []byte("source"), 0o644))
	require.NoError(t, os.WriteFile(cfg.OutPath, []byte("artifact"), 0o644))

	d := &Driver{
		Config:   cfg,
		Compiler: builder,
		Open:     func(string) (Handle, error) { return correctKernel(), nil },
	}

	_, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, builder.calls, "fresh artifact must be reused, not rebuilt")
	assert.FileExists(t, cfg.OutPath, "explicit artifacts are kept")
}

func TestDriver_CompilationFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	builder := &fakeBuilder{err: errors.New("exit status 1")}

	d := &Driver{
		Config:   testConfig(dir),
		Compiler: builder,
		Open:     func(string) (Handle, error) { return correctKernel(), nil },
	}

	_, err := d.Run(context.Background())
	assert.Error(t, err)
}

func TestDriver_ZeroRepeats(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Repeats = 0

	d := &Driver{Config: cfg, Compiler: &fakeBuilder{}}
	_, err := d.Run(context.Background())
	assert.Error(t, err)
}

func TestDriver_PrintsPerRepeatDurations(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	d := &Driver{
		Config:   testConfig(dir),
		Compiler: &fakeBuilder{},
		Open:     func(string) (Handle, error) { return correctKernel(), nil },
		Out:      &out,
	}

	_, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, bytes.Count(out.Bytes(), []byte("Duration: ")))
}
