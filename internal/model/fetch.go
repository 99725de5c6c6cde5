package model

import "fmt"

// ErrorKind classifies a failed external call so callers can react
// programmatically instead of parsing message text.
type ErrorKind string

const (
	ErrNotFound            ErrorKind = "NOT_FOUND"
	ErrUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	ErrInvalidPeriod       ErrorKind = "INVALID_PERIOD"
	ErrService             ErrorKind = "SERVICE_ERROR"
)

// FetchError is the error marker carried by a failed FetchResult.
type FetchError struct {
	Kind    ErrorKind
	Source  string
	Message string
}

func (e *FetchError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
	return e.Message
}

// NewFetchError builds a classified error marker.
func NewFetchError(kind ErrorKind, source, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Source: source, Message: fmt.Sprintf(format, args...)}
}

// FetchResult is the discriminated outcome of one external call: either a
// populated Value or an error marker, never both. Consumers must check
// OK() before reading Value.
type FetchResult[T any] struct {
	Value T
	Err   *FetchError
}

// OK reports whether the result carries a success payload.
func (r FetchResult[T]) OK() bool { return r.Err == nil }

// Ok wraps a success payload.
func Ok[T any](v T) FetchResult[T] { return FetchResult[T]{Value: v} }

// Fail wraps an error marker.
func Fail[T any](err *FetchError) FetchResult[T] { return FetchResult[T]{Err: err} }
