package util

import (
	"context"
	"testing"
	"time"
)

func TestTickerFiresImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	select {
	case <-Ticker(ctx, time.Hour):
	case <-time.After(time.Second):
		t.Fatal("expected an immediate tick")
	}
}

func TestTickerClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	done := make(chan struct{})
	go func() {
		for range Ticker(ctx, time.Millisecond) {
			ticks++
			if ticks == 3 {
				cancel()
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("ticker channel was not closed")
	}
	if ticks < 3 {
		t.Fatal("unexpected tick count", ticks)
	}
}
