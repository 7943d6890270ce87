package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes how a Message's canonical text was produced.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageVoice MessageType = "voice"
	MessageImage MessageType = "image"
)

// Message is one ingested chat event, weakly linked to Project and User:
// either may be null, and deleting the referent nulls the reference rather
// than deleting the message.
type Message struct {
	ID                uuid.UUID   `json:"id"`
	ProjectID         *uuid.UUID  `json:"project_id,omitempty"`
	UserID            *uuid.UUID  `json:"user_id,omitempty"`
	Platform          string      `json:"platform"`
	PlatformChatID    string      `json:"platform_chat_id"`
	PlatformMessageID *string     `json:"platform_message_id,omitempty"`
	MessageType       MessageType `json:"message_type"`
	RawText           *string     `json:"raw_text,omitempty"`
	FileRef           *string     `json:"file_ref,omitempty"`
	TranscribedText   *string     `json:"transcribed_text,omitempty"`
	IsFromBot         bool        `json:"is_from_bot"`
	CreatedAt         time.Time   `json:"created_at"`
}

// CanonicalText is transcribed_text when non-empty, else raw_text.
func (m Message) CanonicalText() string {
	if m.TranscribedText != nil && strings.TrimSpace(*m.TranscribedText) != "" {
		return *m.TranscribedText
	}
	if m.RawText != nil {
		return *m.RawText
	}
	return ""
}
