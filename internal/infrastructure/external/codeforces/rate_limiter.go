// Package codeforces implements the Codeforces public API client.
package codeforces

import (
	"context"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST GATE - Fixed inter-request spacing
// ══════════════════════════════════════════════════════════════════════════════

// RequestGate enforces a minimum start-to-start interval between outbound
// API calls. The anonymous Codeforces API blocks clients that call faster
// than about once per second, so the gate never rejects: callers block
// until their slot opens or their context is cancelled.
//
// The gate owns its own timestamp behind a mutex, so independent clients
// (or tests) get independent pacing.
type RequestGate struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastStart   time.Time
}

// DefaultMinInterval is the safe spacing for the anonymous API.
const DefaultMinInterval = time.Second

// NewRequestGate creates a gate with the given minimum interval.
// Non-positive intervals fall back to DefaultMinInterval.
func NewRequestGate(minInterval time.Duration) *RequestGate {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &RequestGate{minInterval: minInterval}
}

// Wait blocks until the next request may start, then stamps the slot.
// The mutex is held across the sleep: concurrent callers queue up and
// leave exactly minInterval apart. Returns the context error if cancelled
// while waiting.
func (g *RequestGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastStart.IsZero() {
		if wait := g.minInterval - time.Since(g.lastStart); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	g.lastStart = time.Now()
	return nil
}

// MinInterval returns the configured spacing.
func (g *RequestGate) MinInterval() time.Duration {
	return g.minInterval
}
