package geocode

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalGate_FirstCallDoesNotWait(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gate := NewIntervalGateWithClock(1100*time.Millisecond, clock)

	waited, err := gate.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
}

func TestIntervalGate_SecondCallWaitsOutTheInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gate := NewIntervalGateWithClock(time.Second, clock)

	_, err := gate.Wait(context.Background())
	require.NoError(t, err)

	done := make(chan time.Duration, 1)
	go func() {
		waited, err := gate.Wait(context.Background())
		require.NoError(t, err)
		done <- waited
	}()

	// The second caller must be parked on the clock before we advance it.
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	select {
	case waited := <-done:
		assert.Equal(t, time.Second, waited)
	case <-time.After(2 * time.Second):
		t.Fatal("second Wait never returned")
	}
}

func TestIntervalGate_ElapsedIntervalPassesThrough(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gate := NewIntervalGateWithClock(time.Second, clock)

	_, err := gate.Wait(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Second)

	waited, err := gate.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
}

func TestIntervalGate_ContextCancellation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gate := NewIntervalGateWithClock(time.Minute, clock)

	_, err := gate.Wait(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := gate.Wait(ctx)
		errCh <- err
	}()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled Wait never returned")
	}
}
