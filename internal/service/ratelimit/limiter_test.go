package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWaitSpacesCalls(t *testing.T) {
	const interval = 20 * time.Millisecond
	const calls = 5

	l := NewInterval(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < calls; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	elapsed := time.Since(start)

	if min := time.Duration(calls-1) * interval; elapsed < min {
		t.Fatalf("expected at least %v between first and last call, got %v", min, elapsed)
	}
}

func TestWaitFirstCallImmediate(t *testing.T) {
	l := NewInterval(time.Second)

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("first acquire should not block, took %v", elapsed)
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	l := NewInterval(time.Hour)

	// Burn the initial token so the next wait would block for an hour.
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected context error, got nil")
	}
}
