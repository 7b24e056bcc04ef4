package kernel

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	blasnative "gonum.org/v1/gonum/blas/gonum"
)

// Tolerance is the absolute Euclidean-norm bound on the difference between a
// kernel's output and the reference result. It deliberately does not scale
// with problem size or magnitude.
const Tolerance = 1e-4

// VerificationError reports a kernel whose output diverged from the trusted
// reference beyond Tolerance.
type VerificationError struct {
	Norm      float64
	Tolerance float64
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("kernel output differs from reference: |diff| = %g exceeds %g", e.Norm, e.Tolerance)
}

var impl = blasnative.Implementation{}

func blasTranspose(t Transpose) blas.Transpose {
	switch t {
	case Trans:
		return blas.Trans
	case ConjTrans:
		return blas.ConjTrans
	default:
		return blas.NoTrans
	}
}

// Reference computes alpha·op(A)·op(B) + beta·C into a fresh zero-initialized
// result buffer using gonum's native BLAS. gonum's Dgemm is row-major; a
// column-major problem is expressed by computing Cᵀ = op(B)ᵀ·op(A)ᵀ, which
// leaves the buffers and leading dimensions untouched.
func Reference(layout Layout, transA, transB Transpose, dims Dims,
	alpha, beta float64, a []float64, lda int, b []float64, ldb, ldc int) []float64 {
	m, n, k := dims.M(), dims.N(), dims.K()
	d := make([]float64, m*n)

	if layout == RowMajor {
		impl.Dgemm(blasTranspose(transA), blasTranspose(transB),
			m, n, k, alpha, a, lda, b, ldb, beta, d, ldc)
	} else {
		impl.Dgemm(blasTranspose(transB), blasTranspose(transA),
			n, m, k, alpha, b, ldb, a, lda, beta, d, ldc)
	}
	return d
}

// Verify gates a timed kernel's first output against the trusted reference
// computed from identical operands. output and the reference must both have
// started from a zero-initialized C. Returns a *VerificationError when the
// Euclidean norm of the difference exceeds Tolerance.
func Verify(output []float64, layout Layout, transA, transB Transpose, dims Dims,
	alpha, beta float64, a []float64, lda int, b []float64, ldb, ldc int) error {
	d := Reference(layout, transA, transB, dims, alpha, beta, a, lda, b, ldb, ldc)

	// d <- d - output, then take its Euclidean norm.
	impl.Daxpy(len(d), -1.0, output, 1, d, 1)
	norm := impl.Dnrm2(len(d), d, 1)

	if norm > Tolerance {
		return &VerificationError{Norm: norm, Tolerance: Tolerance}
	}
	return nil
}
