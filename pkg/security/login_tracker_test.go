package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTrackerInMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	lt := NewLoginTracker(LoginTrackerConfig{MaxAttempts: 3, AttemptWindow: time.Minute, BlockDuration: 10 * time.Minute}, nil)
	lt.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		blocked, err := lt.RecordFailedAttempt(ctx, "a@example.com")
		require.NoError(t, err)
		assert.False(t, blocked)
	}
	blocked, err := lt.RecordFailedAttempt(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, blocked)

	isBlocked, err := lt.IsBlocked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, isBlocked)

	other, err := lt.IsBlocked(ctx, "b@example.com")
	require.NoError(t, err)
	assert.False(t, other)

	now = now.Add(11 * time.Minute)
	isBlocked, err = lt.IsBlocked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, isBlocked, "block expires")
}

func TestLoginTrackerClearAndWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	lt := NewLoginTracker(LoginTrackerConfig{MaxAttempts: 2, AttemptWindow: time.Minute, BlockDuration: time.Minute}, nil)
	lt.now = func() time.Time { return now }

	_, _ = lt.RecordFailedAttempt(ctx, "a@example.com")
	require.NoError(t, lt.ClearAttempts(ctx, "a@example.com"))
	blocked, _ := lt.RecordFailedAttempt(ctx, "a@example.com")
	assert.False(t, blocked, "cleared counter starts over")

	now = now.Add(2 * time.Minute)
	blocked, _ = lt.RecordFailedAttempt(ctx, "a@example.com")
	assert.False(t, blocked, "failures outside the window are forgotten")
}
