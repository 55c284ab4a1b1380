package agent

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_BlocksWhenExhausted(t *testing.T) {
	l := NewLimiter(1)
	if err := l.acquire(context.Background()); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.acquire(ctx); err == nil {
		t.Fatal("Expected second acquire to fail while the slot is held")
	}

	l.release()
	if err := l.acquire(context.Background()); err != nil {
		t.Errorf("Expected acquire after release, got %v", err)
	}
}

func TestLimiter_NilIsUnlimited(t *testing.T) {
	var l *Limiter
	for i := 0; i < 3; i++ {
		if err := l.acquire(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	l.release()
}
