package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionPayment(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentRecorded, PaymentInProgress))
	assert.True(t, CanTransitionPayment(PaymentVerified, PaymentInProgress), "rollback to immediate predecessor allowed")
	assert.False(t, CanTransitionPayment(PaymentRecorded, PaymentPaid), "cannot skip states")
	assert.False(t, CanTransitionPayment(PaymentClosed, PaymentPaid), "closed is terminal")
}

func TestIsCheckpointOrder(t *testing.T) {
	for order := 1; order <= 13; order++ {
		want := order == 3 || order == 4 || order == 6 || order == 8 || order == 13
		assert.Equal(t, want, IsCheckpointOrder(order), "order %d", order)
	}
}

func TestStandardStageNames_Count(t *testing.T) {
	assert.Len(t, StandardStageNames, 13)
}
