package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform end user, shared across every project they hold a
// ProjectRole in. Created on first /start, or as a placeholder when invited
// before they have ever messaged the bot.
type User struct {
	ID           uuid.UUID `json:"id"`
	TelegramID   *int64    `json:"telegram_id,omitempty"`
	WhatsAppID   *string   `json:"whatsapp_id,omitempty"`
	FullName     string    `json:"full_name"`
	IsBotStarted bool      `json:"is_bot_started"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
