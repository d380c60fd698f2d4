package util

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
)

// Retrier is a wrapper around "github.com/cenkalti/backoff".ExponentialBackOff
type Retrier struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
	MaxElapsedTime      time.Duration
	MaxTries            int
	ShouldRetry         func(err error) bool
	Notify              func(err error, d time.Duration)
}

// NewRetrier creates a new Retrier instance with defaults suited to
// local store writes: a handful of quick attempts.
func NewRetrier() *Retrier {
	return &Retrier{
		InitialInterval:     time.Millisecond * 50,
		MaxInterval:         time.Second,
		Multiplier:          2,
		RandomizationFactor: 0.5,
		MaxElapsedTime:      time.Second * 10,
		MaxTries:            5,
	}
}

// Retry the function f until it does not return error or BackOff stops.
// The last error from f is returned.
func (r *Retrier) Retry(ctx context.Context, f func() error) error {
	b := backoff.WithContext(r.backoff(), ctx)
	return backoff.RetryNotify(func() error { return r.checkErr(f()) }, b, r.notify)
}

func (r *Retrier) notify(err error, d time.Duration) {
	if r.Notify != nil {
		r.Notify(err, d)
	}
}

func (r *Retrier) checkErr(err error) error {
	switch {
	case err != nil && r.ShouldRetry != nil && !r.ShouldRetry(err):
		return backoff.Permanent(err)
	default:
		return err
	}
}

func (r *Retrier) backoff() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     r.InitialInterval,
		MaxInterval:         r.MaxInterval,
		Multiplier:          r.Multiplier,
		RandomizationFactor: r.RandomizationFactor,
		MaxElapsedTime:      r.MaxElapsedTime,
		Clock:               backoff.SystemClock,
	}
	b.Reset()

	max := r.MaxTries - 1
	if max < 0 {
		max = 0
	}
	// Cap the number of retry attempts.
	return backoff.WithMaxRetries(b, uint64(max))
}
