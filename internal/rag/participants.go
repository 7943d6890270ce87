package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/renohub/core/internal/aiclient"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/skills"
)

// participantHistoryLimit bounds how much raw conversation a participant
// summary is built from.
const participantHistoryLimit = 200

const participantSkillName = "participant-summary"

const participantFallbackPrompt = "Summarize this person's role in the project from their messages below, in exactly four bullet points: what they're responsible for, key decisions they've made, open concerns they've raised, and their typical communication style. Messages:"

// SummarizeParticipant builds a four-point summary of one user's
// involvement in a project from their most recent messages, truncating to
// participantHistoryLimit if more are supplied.
func SummarizeParticipant(ctx context.Context, chat aiclient.Client, reg skills.Registry, messages []domain.Message) (string, error) {
	if len(messages) > participantHistoryLimit {
		messages = messages[len(messages)-participantHistoryLimit:]
	}
	if len(messages) == 0 {
		return "", domain.Validation("no messages to summarize")
	}

	var b strings.Builder
	b.WriteString(reg.Prompt(participantSkillName, participantFallbackPrompt))
	b.WriteString("\n")
	for _, m := range messages {
		text := m.CanonicalText()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", text)
	}

	return chat.Chat(ctx, aiclient.ChatParams{
		Messages: []aiclient.ChatMessage{
			{Role: "system", Content: b.String()},
		},
		Temperature: askTemperature,
		MaxTokens:   askMaxTokens,
	})
}
