package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeLog is an append-only audit row: never updated, never deleted.
type ChangeLog struct {
	ID                uuid.UUID  `json:"id"`
	ProjectID         uuid.UUID  `json:"project_id"`
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	EntityType        string     `json:"entity_type"`
	EntityID          uuid.UUID  `json:"entity_id"`
	FieldName         string     `json:"field_name"`
	OldValue          *string    `json:"old_value,omitempty"`
	NewValue          *string    `json:"new_value,omitempty"`
	ConfirmedByUserID *uuid.UUID `json:"confirmed_by_user_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
