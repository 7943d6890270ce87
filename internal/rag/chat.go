package rag

import (
	"context"

	"github.com/renohub/core/internal/aiclient"
)

// chatWindowTurns bounds the sliding window of a live chat conversation to
// the last 10 user/assistant turn pairs (20 messages).
const (
	chatWindowTurns    = 10
	chatWindowMessages = chatWindowTurns * 2
)

// ChatTurn is one exchange kept in the sliding window.
type ChatTurn struct {
	Role    string
	Content string
}

// ChatSession holds the rolling window for one ongoing conversation. It is
// not safe for concurrent use; callers serialize access per conversation
// the same way the fsm package's Store does.
type ChatSession struct {
	systemPrompt string
	turns        []ChatTurn
}

func NewChatSession(systemPrompt string) *ChatSession {
	return &ChatSession{systemPrompt: systemPrompt}
}

// Append records a turn and trims the window down to chatWindowMessages,
// dropping the oldest turns first.
func (s *ChatSession) Append(role, content string) {
	s.turns = append(s.turns, ChatTurn{Role: role, Content: content})
	if len(s.turns) > chatWindowMessages {
		s.turns = s.turns[len(s.turns)-chatWindowMessages:]
	}
}

// Reply sends the current window plus a new user message to chat and
// appends both turns to the session. projectContext is the structured
// project/stage/budget block BuildProjectContext produces, resent every
// turn since it can go stale over the life of a long-running session —
// callers that have nothing to add may pass an empty string.
func (s *ChatSession) Reply(ctx context.Context, chat aiclient.Client, projectContext, userMessage string) (string, error) {
	s.Append("user", userMessage)

	msgs := make([]aiclient.ChatMessage, 0, len(s.turns)+2)
	msgs = append(msgs, aiclient.ChatMessage{Role: "system", Content: s.systemPrompt})
	if projectContext != "" {
		msgs = append(msgs, aiclient.ChatMessage{Role: "system", Content: projectContext})
	}
	for _, t := range s.turns {
		msgs = append(msgs, aiclient.ChatMessage{Role: t.Role, Content: t.Content})
	}

	answer, err := chat.Chat(ctx, aiclient.ChatParams{Messages: msgs, Temperature: askTemperature, MaxTokens: askMaxTokens})
	if err != nil {
		return "", err
	}

	s.Append("assistant", answer)
	return answer, nil
}
