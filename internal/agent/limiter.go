package agent

import (
	"context"
	"fmt"
	"time"
)

// Limiter caps concurrent Gemini requests across all agents sharing it.
type Limiter struct {
	slots   chan struct{}
	timeout time.Duration
}

func NewLimiter(concurrent int) *Limiter {
	if concurrent <= 0 {
		concurrent = 1
	}
	slots := make(chan struct{}, concurrent)
	for i := 0; i < concurrent; i++ {
		slots <- struct{}{}
	}
	return &Limiter{slots: slots, timeout: 2 * time.Minute}
}

// acquire blocks until a slot is available
func (l *Limiter) acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-l.slots:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(l.timeout):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (l *Limiter) release() {
	if l == nil {
		return
	}
	l.slots <- struct{}{}
}
