package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New(2, 0.001)
	if !l.Allow() {
		t.Fatalf("first token should be available")
	}
	if !l.Allow() {
		t.Fatalf("second token should be available")
	}
	if l.Allow() {
		t.Fatalf("bucket should be empty")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New(1, 100) // 100 tokens/sec
	if !l.Allow() {
		t.Fatalf("first token should be available")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow() {
		t.Fatalf("bucket should have refilled")
	}
}

func TestWaitReturnsImmediatelyWithTokens(t *testing.T) {
	l := New(1, 1)
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 20*time.Millisecond {
		t.Fatalf("wait should not block with tokens available")
	}
}

func TestWaitBlocksUntilRefill(t *testing.T) {
	l := New(1, 50)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("second wait should have blocked for a refill")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New(1, 0.001)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
