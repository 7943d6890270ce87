package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens_NonZeroForNonEmptyText(t *testing.T) {
	n := EstimateTokens("gpt-4o", "hello, how is the renovation going?")
	assert.Greater(t, n, 0)
}

func TestTrimToBudget_DropsOldestFirst(t *testing.T) {
	history := []string{"user: one", "user: two", "user: three"}
	trimmed := TrimToBudget("gpt-4o", history, 1)
	assert.Equal(t, []string{"user: three"}, trimmed)
}

func TestTrimToBudget_KeepsEverythingUnderBudget(t *testing.T) {
	history := []string{"user: hi"}
	trimmed := TrimToBudget("gpt-4o", history, 10_000)
	assert.Equal(t, history, trimmed)
}
