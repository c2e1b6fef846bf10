package ratelimit

import (
	"testing"
	"time"

	"github.com/bookli/bookli/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowWithinLimit(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(3, time.Minute, clock)

	assert.True(t, limiter.Allow("viewer:1"))
	assert.True(t, limiter.Allow("viewer:1"))
	assert.True(t, limiter.Allow("viewer:1"))
	assert.False(t, limiter.Allow("viewer:1"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(1, time.Minute, clock)

	assert.True(t, limiter.Allow("viewer:1"))
	assert.True(t, limiter.Allow("viewer:2"))
	assert.False(t, limiter.Allow("viewer:1"))
}

func TestLimiter_WindowExpires(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(1, time.Minute, clock)

	assert.True(t, limiter.Allow("viewer:1"))
	assert.False(t, limiter.Allow("viewer:1"))

	clock.SetNow(clock.FixedNow.Add(61 * time.Second))
	assert.True(t, limiter.Allow("viewer:1"))
}

func TestLimiter_Remaining(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(2, time.Minute, clock)

	assert.Equal(t, 2, limiter.Remaining("viewer:1"))
	limiter.Allow("viewer:1")
	assert.Equal(t, 1, limiter.Remaining("viewer:1"))
	limiter.Allow("viewer:1")
	assert.Equal(t, 0, limiter.Remaining("viewer:1"))
}

func TestLimiter_Reset(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(1, time.Minute, clock)

	limiter.Allow("viewer:1")
	assert.False(t, limiter.Allow("viewer:1"))
	limiter.Reset("viewer:1")
	assert.True(t, limiter.Allow("viewer:1"))
}
