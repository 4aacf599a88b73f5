package fulfillment

import "fmt"

// ResultKind distinguishes the outcomes of a gateway read
type ResultKind int

const (
	// ResultSuccess means the value was fetched
	ResultSuccess ResultKind = iota
	// ResultNotFound means the remote system answered but has no such record
	ResultNotFound
	// ResultTransportError means the remote system could not be reached or failed
	ResultTransportError
)

// String returns the string representation of ResultKind
func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultNotFound:
		return "not_found"
	case ResultTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the outcome of a gateway call. Callers branch on Kind instead of
// relying on empty values or nil pointers.
type Result[T any] struct {
	kind  ResultKind
	value T
	err   error
}

// Success wraps a fetched value
func Success[T any](value T) Result[T] {
	return Result[T]{kind: ResultSuccess, value: value}
}

// NotFound reports a missing record
func NotFound[T any]() Result[T] {
	return Result[T]{kind: ResultNotFound}
}

// TransportError reports a failure to talk to the remote system
func TransportError[T any](err error) Result[T] {
	if err == nil {
		err = ErrProviderUnavailable
	}
	return Result[T]{kind: ResultTransportError, err: err}
}

// Kind returns the outcome kind
func (r Result[T]) Kind() ResultKind {
	return r.kind
}

// Value returns the value and whether the result is a success
func (r Result[T]) Value() (T, bool) {
	return r.value, r.kind == ResultSuccess
}

// Err returns the transport error, nil for Success and NotFound
func (r Result[T]) Err() error {
	return r.err
}

// IsSuccess returns true when a value was fetched
func (r Result[T]) IsSuccess() bool {
	return r.kind == ResultSuccess
}

// IsNotFound returns true when the record does not exist
func (r Result[T]) IsNotFound() bool {
	return r.kind == ResultNotFound
}

// IsTransportError returns true when the remote call failed
func (r Result[T]) IsTransportError() bool {
	return r.kind == ResultTransportError
}
