package result

import "fmt"

// Void is the success payload of operations that return no data (delete,
// clear, reset, close).
type Void = struct{}

// Result holds exactly one of a success value or an error.
// The zero value is an Ok carrying the zero value of T.
type Result[T any] struct {
	value T
	err   error
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// Ok creates a success Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a failure Result carrying err.
// A nil err is treated as success to keep the one-variant invariant.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// --------------------------------------------------------------------------
// Inspection
// --------------------------------------------------------------------------

// IsOk reports whether the Result holds a success value.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr reports whether the Result holds an error.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Match dispatches exhaustively over both variants. Exactly one of the two
// callbacks is invoked. Nil callbacks are allowed and skipped.
func (r Result[T]) Match(onOk func(T), onErr func(error)) {
	if r.err != nil {
		if onErr != nil {
			onErr(r.err)
		}
		return
	}
	if onOk != nil {
		onOk(r.value)
	}
}

// Get returns the contained value and error in Go's native two-value form.
// This is the sanctioned way to propagate a Result through internal code.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// --------------------------------------------------------------------------
// Transformation
// --------------------------------------------------------------------------

// Map transforms the success value and passes an error through unchanged.
// It is a package function because Go methods cannot introduce type params.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}

// MapErr transforms the error and passes a success value through unchanged.
func (r Result[T]) MapErr(fn func(error) error) Result[T] {
	if r.err == nil {
		return r
	}
	return Err[T](fn(r.err))
}

// --------------------------------------------------------------------------
// Extraction (convenience only, not used inside lib/)
// --------------------------------------------------------------------------

// Unwrap returns the success value and panics on an error Result.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(fmt.Sprintf("result: unwrap of error result: %v", r.err))
	}
	return r.value
}

// UnwrapOr returns the success value or fallback on an error Result.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}
