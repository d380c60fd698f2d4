// Package scoring ranks candidate execution targets by fitness for running a
// workload. A Strategy reads resource metrics through a Query and turns them
// into a single desirability score: higher is better, zero means the target
// could not be scored.
package scoring

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned by a Query when a resource can't be produced.
var ErrUnavailable = errors.New("resource unavailable")

// Query resolves a resource key, such as "cpu/freq", to its current value.
//
// Any non-nil error means the resource is unavailable. Strategies never
// inspect the cause. Implementations must be safe to call from multiple
// goroutines if they are shared between concurrent Score calls, and must
// return in bounded time.
type Query interface {
	Resource(key string) (float64, error)
}

// QueryFunc adapts a function to the Query interface.
type QueryFunc func(key string) (float64, error)

// Resource calls f(key).
func (f QueryFunc) Resource(key string) (float64, error) {
	return f(key)
}

// Unavailable returns an error for the given key which matches ErrUnavailable
// with errors.Is, and includes the cause, if any.
func Unavailable(key string, cause error) error {
	if cause == nil {
		return &unavailableError{key: key}
	}
	return &unavailableError{key: key, cause: cause}
}

type unavailableError struct {
	key   string
	cause error
}

func (e *unavailableError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.key, ErrUnavailable)
	}
	return fmt.Sprintf("%s: %s: %s", e.key, ErrUnavailable, e.cause)
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *unavailableError) Unwrap() error {
	return e.cause
}
