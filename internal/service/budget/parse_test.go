package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renohub/core/internal/domain"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"45000", 45000},
		{"45 000", 45000},
		{"45,000.50", 45000.50},
		{"45000р", 45000},
		{"45000 руб", 45000},
		{"45к", 45000},
		{"45k", 45000},
		{"1.5млн", 1_500_000},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		require.NoError(t, err, "input %q", c.in)
		assert.InDelta(t, c.want, got, 0.001, "input %q", c.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("")
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.CodeValidation))

	_, err = ParseAmount("not a number")
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.CodeValidation))
}
