package geocode

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// IntervalGate enforces a minimum interval between requests to a
// rate-limited upstream. Callers block until their slot arrives; skipping
// a call instead of waiting would risk the upstream banning the client.
//
// The mutex is held across the sleep so concurrent callers are serialized
// and cannot compute overlapping wait windows.
type IntervalGate struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	interval time.Duration
	last     time.Time
}

// NewIntervalGate creates a gate with the given minimum inter-request interval.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	return NewIntervalGateWithClock(interval, clockwork.NewRealClock())
}

// NewIntervalGateWithClock injects a time source; tests pass a fake clock.
func NewIntervalGateWithClock(interval time.Duration, clock clockwork.Clock) *IntervalGate {
	return &IntervalGate{clock: clock, interval: interval}
}

// Wait blocks until the minimum interval since the previous request has
// elapsed, then claims the slot. Returns the time spent waiting, or the
// context error if the caller gave up first (the slot is not claimed then).
func (g *IntervalGate) Wait(ctx context.Context) (time.Duration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	wait := g.interval - now.Sub(g.last)
	if wait > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-g.clock.After(wait):
		}
	} else {
		wait = 0
	}

	g.last = g.clock.Now()
	return wait, nil
}
