package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyHealth(t *testing.T) {
	assert.Equal(t, HealthOK, ClassifyHealth(500_000, 1_000_000))
	assert.Equal(t, HealthWarning, ClassifyHealth(900_000, 1_000_000))
	assert.Equal(t, HealthOver, ClassifyHealth(1_000_001, 1_000_000))
	assert.Equal(t, HealthOK, ClassifyHealth(100, 0), "no budget set is never flagged")
}
