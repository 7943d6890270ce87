package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renohub/core/internal/aiclient"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/skills"
)

func TestSummarizeParticipant_RejectsEmptyHistory(t *testing.T) {
	var chat aiclient.Client
	var reg skills.Registry
	_, err := SummarizeParticipant(context.Background(), chat, reg, nil)
	assert.True(t, domain.Is(err, domain.CodeValidation))
}
