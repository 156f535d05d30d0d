package models

import "errors"

// ErrNotAvailable reports that a query ran but had nothing to return,
// e.g. a host with no IPv4 address bound.
var ErrNotAvailable = errors.New("not available")

// Result holds either a successfully retrieved value or the reason it could
// not be retrieved.
type Result[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](err error) Result[T] {
	if err == nil {
		err = ErrNotAvailable
	}
	return Result[T]{Err: err}
}

// From builds a Result out of a conventional (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}
