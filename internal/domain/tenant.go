package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an independent messaging-platform bot identity. Its users and
// projects are isolated from every other tenant sharing this process.
type Tenant struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	BotToken    string    `json:"-"` // secret; never serialized
	BotUsername string    `json:"bot_username"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
