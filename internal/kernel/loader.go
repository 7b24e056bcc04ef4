//go:build darwin || freebsd || linux

package kernel

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Symbol is the entry point a compiled kernel artifact must export.
const Symbol = "call_dgemm"

// ErrSymbolNotFound reports an artifact that loads but does not export Symbol.
var ErrSymbolNotFound = errors.New("compiled object does not contain symbol " + Symbol)

// LoadError reports an artifact that dlopen could not load at all.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load compiled object %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type dgemmFunc func(layout int32, transA, transB int32,
	m, n, k uintptr,
	alpha float64, a unsafe.Pointer, lda uintptr,
	b unsafe.Pointer, ldb uintptr,
	beta float64, c unsafe.Pointer, ldc uintptr)

// Library is a loaded kernel artifact. It satisfies Kernel and must be closed
// after the benchmark run.
type Library struct {
	handle uintptr
	call   dgemmFunc
}

// Open loads the shared object at path and resolves the kernel symbol.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	addr, err := purego.Dlsym(handle, Symbol)
	if err != nil || addr == 0 {
		_ = purego.Dlclose(handle)
		return nil, ErrSymbolNotFound
	}

	lib := &Library{handle: handle}
	purego.RegisterFunc(&lib.call, addr)
	return lib, nil
}

// Call invokes the loaded kernel. The caller owns a, b and c exclusively for
// the duration of the call.
func (l *Library) Call(layout Layout, transA, transB Transpose, dims Dims,
	alpha float64, a []float64, lda int, b []float64, ldb int,
	beta float64, c []float64, ldc int) {
	l.call(int32(layout), int32(transA), int32(transB),
		uintptr(dims.M()), uintptr(dims.N()), uintptr(dims.K()),
		alpha, unsafe.Pointer(&a[0]), uintptr(lda),
		unsafe.Pointer(&b[0]), uintptr(ldb),
		beta, unsafe.Pointer(&c[0]), uintptr(ldc))
}

// Close releases the dlopen handle. The Library must not be used afterwards.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}
