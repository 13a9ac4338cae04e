package codeforces

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestGate_SpacesRequests(t *testing.T) {
	gate := NewRequestGate(50 * time.Millisecond)
	ctx := context.Background()

	assert.NoError(t, gate.Wait(ctx))
	start := time.Now()
	assert.NoError(t, gate.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond, "second slot opened too early")
}

func TestRequestGate_FirstRequestImmediate(t *testing.T) {
	gate := NewRequestGate(time.Second)

	start := time.Now()
	assert.NoError(t, gate.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRequestGate_ContextCancellation(t *testing.T) {
	gate := NewRequestGate(time.Second)
	assert.NoError(t, gate.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := gate.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestGate_DefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second, NewRequestGate(0).MinInterval())
	assert.Equal(t, time.Second, NewRequestGate(-time.Second).MinInterval())
	assert.Equal(t, 2*time.Second, NewRequestGate(2*time.Second).MinInterval())
}

func TestRequestGate_SerializesConcurrentCallers(t *testing.T) {
	gate := NewRequestGate(30 * time.Millisecond)
	ctx := context.Background()

	const callers = 4
	done := make(chan time.Time, callers)
	for i := 0; i < callers; i++ {
		go func() {
			if err := gate.Wait(ctx); err == nil {
				done <- time.Now()
			}
		}()
	}

	starts := make([]time.Time, 0, callers)
	for i := 0; i < callers; i++ {
		select {
		case ts := <-done:
			starts = append(starts, ts)
		case <-time.After(2 * time.Second):
			t.Fatal("gate deadlocked")
		}
	}

	// Callers arrive in channel order, which tracks slot order closely
	// enough to check total spread: four slots need at least three
	// intervals between first and last.
	var min, max time.Time
	for i, ts := range starts {
		if i == 0 || ts.Before(min) {
			min = ts
		}
		if i == 0 || ts.After(max) {
			max = ts
		}
	}
	assert.GreaterOrEqual(t, max.Sub(min), 80*time.Millisecond)
}
