package kernel

// Dims is the problem size (m, n, k) of C[m×n] = alpha·op(A)[m×k]·op(B)[k×n] + beta·C.
type Dims [3]int

func (d Dims) M() int { return d[0] }
func (d Dims) N() int { return d[1] }
func (d Dims) K() int { return d[2] }

// Ops returns the floating point operation count of one multiply, 2·m·n·k.
func (d Dims) Ops() float64 {
	return 2.0 * float64(d[0]) * float64(d[1]) * float64(d[2])
}

// Kernel is the capability to run one DGEMM invocation. Callers own the
// buffers exclusively for the duration of a call; implementations must not
// retain them. The loader wraps the dlopen'd symbol behind this interface so
// nothing else depends on loader mechanics.
type Kernel interface {
	Call(layout Layout, transA, transB Transpose, dims Dims,
		alpha float64, a []float64, lda int,
		b []float64, ldb int,
		beta float64, c []float64, ldc int)
}

// KernelFunc adapts a plain function to the Kernel interface.
type KernelFunc func(layout Layout, transA, transB Transpose, dims Dims,
	alpha float64, a []float64, lda int, b []float64, ldb int,
	beta float64, c []float64, ldc int)

func (f KernelFunc) Call(layout Layout, transA, transB Transpose, dims Dims,
	alpha float64, a []float64, lda int, b []float64, ldb int,
	beta float64, c []float64, ldc int) {
	f(layout, transA, transB, dims, alpha, a, lda, b, ldb, beta, c, ldc)
}

// LeadingDims derives lda, ldb and ldc for densely packed operands. An
// operand's leading dimension flips between its two extents when exactly one
// of "transposed" and "row-major" holds; conjugate transposition does not
// participate in the flip.
func LeadingDims(layout Layout, transA, transB Transpose, dims Dims) (lda, ldb, ldc int) {
	m, n, k := dims.M(), dims.N(), dims.K()
	row := layout == RowMajor

	if (transA == Trans) != row {
		lda = k
	} else {
		lda = m
	}
	if (transB == Trans) != row {
		ldb = n
	} else {
		ldb = k
	}
	if row {
		ldc = n
	} else {
		ldc = m
	}
	return lda, ldb, ldc
}
