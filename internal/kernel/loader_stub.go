//go:build !(darwin || freebsd || linux)

package kernel

import (
	"errors"
	"fmt"
	"runtime"
)

const Symbol = "call_dgemm"

var ErrSymbolNotFound = errors.New("compiled object does not contain symbol " + Symbol)

type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load compiled object %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Library is unavailable on platforms without dlopen support.
type Library struct{}

func Open(path string) (*Library, error) {
	return nil, &LoadError{Path: path, Err: fmt.Errorf("kernel loading is not supported on %s", runtime.GOOS)}
}

func (l *Library) Call(layout Layout, transA, transB Transpose, dims Dims,
	alpha float64, a []float64, lda int, b []float64, ldb int,
	beta float64, c []float64, ldc int) {
}

func (l *Library) Close() error { return nil }
