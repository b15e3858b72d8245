package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelayDown = errors.New("relay down")

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		err := b.Do(func() error { return errRelayDown })
		assert.ErrorIs(t, err, errRelayDown)
	}
	assert.Equal(t, BreakerOpen, b.State())

	// Open breaker refuses without invoking the call.
	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureRun(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})

	require.Error(t, b.Do(func() error { return errRelayDown }))
	require.NoError(t, b.Do(func() error { return nil }))
	require.Error(t, b.Do(func() error { return errRelayDown }))

	// Never two in a row, so still closed.
	assert.Equal(t, BreakerClosed, b.State())
}

// ageOut backdates the open window so the breaker is due to probe, without
// sleeping through a real timeout.
func ageOut(b *Breaker) {
	b.mu.Lock()
	b.openedAt = time.Now().Add(-2 * b.cfg.OpenTimeout)
	b.mu.Unlock()
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: time.Hour})

	require.Error(t, b.Do(func() error { return errRelayDown }))
	require.Equal(t, BreakerOpen, b.State())

	ageOut(b)
	assert.Equal(t, BreakerHalfOpen, b.State())

	require.NoError(t, b.Do(func() error { return nil }))
	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})

	require.Error(t, b.Do(func() error { return errRelayDown }))
	ageOut(b)
	require.Equal(t, BreakerHalfOpen, b.State())

	// A failed probe reopens for a fresh hour-long window, so the state
	// cannot slip back to half-open under the assertion.
	require.Error(t, b.Do(func() error { return errRelayDown }))
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}
