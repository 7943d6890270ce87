package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renohub/core/internal/domain"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"05.03.2026", "05/03/2026", "2026-03-05"} {
		got, err := ParseDate(in)
		require.NoError(t, err, "input %q", in)
		assert.True(t, want.Equal(got), "input %q: got %v", in, got)
	}

	_, err := ParseDate("not a date")
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.CodeValidation))
}

func TestLaunchReady(t *testing.T) {
	start := time.Now()
	contact := "+7 900 000-00-00"

	var s Service // LaunchReady is pure and never touches the repositories
	assert.False(t, s.LaunchReady(domain.Stage{}))
	assert.True(t, s.LaunchReady(domain.Stage{StartDate: &start, ResponsibleContact: &contact}))
}

func TestIsIdle(t *testing.T) {
	now := time.Now()
	active := domain.Stage{Status: domain.StageInProgress, LastActivityAt: now.Add(-2 * time.Hour)}
	assert.True(t, IsIdle(active, time.Hour, now))
	assert.False(t, IsIdle(active, 3*time.Hour, now))

	planned := domain.Stage{Status: domain.StagePlanned, LastActivityAt: now.Add(-48 * time.Hour)}
	assert.False(t, IsIdle(planned, time.Hour, now))
}
