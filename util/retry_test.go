package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetrier() *Retrier {
	r := NewRetrier()
	r.InitialInterval = time.Millisecond
	r.MaxInterval = time.Millisecond * 5
	r.RandomizationFactor = 0
	return r
}

func TestRetrierMaxTries(t *testing.T) {
	r := fastRetrier()
	r.MaxTries = 3

	i := 0
	err := r.Retry(context.Background(), func() error {
		i++
		return errors.New("always error")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if i != 3 {
		t.Error("unexpected number of tries", i)
	}
}

func TestRetrierSucceeds(t *testing.T) {
	r := fastRetrier()

	i := 0
	err := r.Retry(context.Background(), func() error {
		i++
		if i < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if i != 2 {
		t.Error("unexpected number of tries", i)
	}
}

func TestRetrierShouldRetry(t *testing.T) {
	r := fastRetrier()
	r.ShouldRetry = func(err error) bool { return false }

	var notified int
	r.Notify = func(error, time.Duration) { notified++ }

	i := 0
	err := r.Retry(context.Background(), func() error {
		i++
		return errors.New("permanent")
	})
	if err == nil || err.Error() != "permanent" {
		t.Fatal("unexpected error", err)
	}
	if i != 1 || notified != 0 {
		t.Error("expected a single attempt without notification", i, notified)
	}
}
