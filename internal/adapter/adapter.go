// Package adapter defines the platform-neutral capability set every
// concrete messaging client implements, plus the multi-tenant supervisor
// that owns their lifecycles. Concrete Telegram/WhatsApp clients are
// external collaborators, out of this module's scope; only the interface
// and an in-memory loopback implementation (used by tests and local
// development) live here.
package adapter

import (
	"context"

	"github.com/renohub/core/internal/domain"
)

// InboundEvent is the platform-neutral shape every adapter normalizes its
// native update type into before it reaches the mention gate.
type InboundEvent struct {
	Platform          string
	ChatID            string
	IsGroupChat       bool
	UserPlatformID    string
	UserFullName      string
	Text              string
	IsCommand         bool
	IsReplyToBot      bool
	MentionsUsername  bool
	MentionsBotID     bool
	MessageType       domain.MessageType
	PlatformMessageID string
}

// OutboundMessage is a reply or proactive notification to deliver.
type OutboundMessage struct {
	ChatID  string
	Text    string
	Buttons []InlineButton // optional
}

// InlineButton is one button of an inline keyboard; CallbackData follows
// the colon-delimited encoding in internal/adapter/callback.go.
type InlineButton struct {
	Label        string
	CallbackData string
}

// Adapter is the capability set a concrete platform client must implement.
// The supervisor holds one instance per active Tenant.
type Adapter interface {
	// Identify confirms the bot token against the platform and returns its
	// username, used to back-fill Tenant.BotUsername at startup.
	Identify(ctx context.Context) (username string, err error)

	// Send delivers an outbound message to a chat.
	Send(ctx context.Context, msg OutboundMessage) error

	// RegisterCommands sets the bot-command menu for private and group
	// chat scopes.
	RegisterCommands(ctx context.Context, commands []Command) error

	// Consume begins delivering inbound events to handle until ctx is
	// canceled. Implementations run their own receive loop and must return
	// once ctx.Done() fires.
	Consume(ctx context.Context, handle func(InboundEvent)) error

	// Close releases the underlying platform connection.
	Close() error
}

// Command is one entry of the bot-command menu.
type Command struct {
	Name        string
	Description string
	Scope       CommandScope
}

type CommandScope string

const (
	ScopePrivate CommandScope = "private"
	ScopeGroup   CommandScope = "group"
)
