package llm

import (
	"context"
	"testing"
	"time"
)

func TestRPSLimiterBurst(t *testing.T) {
	l := newRPSLimiter(1, 2)
	defer l.Stop()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("burst acquire %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); err == nil {
		t.Fatal("acquire beyond burst should block until refill")
	}
}

func TestRPSLimiterDisabled(t *testing.T) {
	var l *rpsLimiter
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("nil limiter must not block: %v", err)
	}
	l.Stop()
}

func TestRPSLimiterStopIdempotent(t *testing.T) {
	l := newRPSLimiter(10, 1)
	l.Stop()
	l.Stop()
}
