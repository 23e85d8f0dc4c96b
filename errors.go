package topn

import "errors"

// Error kinds returned by this package's entry points. None of these are
// ever swallowed internally: a call either succeeds or returns one of these
// (wrapped with extra context via fmt.Errorf/%w where useful).
var (
	// ErrShapeMismatch indicates A.Ncols != B.Nrows for a matmul, or that
	// Zip was asked to combine partial results with differing row counts.
	ErrShapeMismatch = errors.New("topn: shape mismatch")

	// ErrTypeMismatch indicates two matrices carry value types that are
	// neither identical nor related by a safe same-kind widening.
	ErrTypeMismatch = errors.New("topn: value type mismatch")

	// ErrUnsupportedType indicates a value or index kind outside the
	// supported set (32/64-bit signed integer, 32/64-bit float for values;
	// 32/64-bit signed integer for indices).
	ErrUnsupportedType = errors.New("topn: unsupported numeric type")

	// ErrInvalidArgument indicates top_n <= 0, density outside (0,1], or
	// n_threads < -1.
	ErrInvalidArgument = errors.New("topn: invalid argument")

	// ErrOutOfMemory indicates the worst-case output size of a MatMulTopN
	// call (top_n * nrows) exceeds the configured MaxOutputNNZ ceiling. It
	// is always returned before any output buffer is allocated. Zip has no
	// such ceiling and never returns it.
	ErrOutOfMemory = errors.New("topn: projected output exceeds configured memory limit")
)
