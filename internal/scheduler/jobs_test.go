package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsApproaching(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	window := now.Add(24 * time.Hour)

	inWindow := now.Add(12 * time.Hour)
	assert.True(t, isApproaching(&inWindow, now, window))

	past := now.Add(-time.Hour)
	assert.False(t, isApproaching(&past, now, window))

	tooFar := now.Add(48 * time.Hour)
	assert.False(t, isApproaching(&tooFar, now, window))

	assert.False(t, isApproaching(nil, now, window))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, isOverdue(&past, now))
	assert.False(t, isOverdue(&future, now))
	assert.False(t, isOverdue(nil, now))
}

func TestIsIdle(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	assert.True(t, isIdle(now.Add(-4*24*time.Hour), now, statusUpdateIdleThreshold))
	assert.False(t, isIdle(now.Add(-time.Hour), now, statusUpdateIdleThreshold))
}
