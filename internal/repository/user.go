package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// UserRepository persists User rows.
type UserRepository struct {
	pool Pool
}

func NewUserRepository(pool Pool) UserRepository {
	return UserRepository{pool: pool}
}

func (r UserRepository) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, telegram_id, whatsapp_id, full_name, is_bot_started, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, notFoundIf(err, "user")
	}
	return u, nil
}

func (r UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, telegram_id, whatsapp_id, full_name, is_bot_started, created_at, updated_at
		FROM users WHERE telegram_id = $1
	`, telegramID)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, notFoundIf(err, "user")
	}
	return u, nil
}

func (r UserRepository) GetByWhatsAppID(ctx context.Context, whatsAppID string) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, telegram_id, whatsapp_id, full_name, is_bot_started, created_at, updated_at
		FROM users WHERE whatsapp_id = $1
	`, whatsAppID)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, notFoundIf(err, "user")
	}
	return u, nil
}

// Upsert creates or updates a user keyed by their platform id, matching the
// "placeholder user created on invite, filled in on first /start" flow.
func (r UserRepository) Upsert(ctx context.Context, u domain.User) (domain.User, error) {
	var row rowScanner
	switch {
	case u.TelegramID != nil:
		row = r.pool.QueryRow(ctx, `
			INSERT INTO users (telegram_id, full_name, is_bot_started)
			VALUES ($1, $2, $3)
			ON CONFLICT (telegram_id) DO UPDATE SET
				full_name = EXCLUDED.full_name,
				is_bot_started = EXCLUDED.is_bot_started OR users.is_bot_started,
				updated_at = now()
			RETURNING id, telegram_id, whatsapp_id, full_name, is_bot_started, created_at, updated_at
		`, *u.TelegramID, u.FullName, u.IsBotStarted)
	case u.WhatsAppID != nil:
		row = r.pool.QueryRow(ctx, `
			INSERT INTO users (whatsapp_id, full_name, is_bot_started)
			VALUES ($1, $2, $3)
			ON CONFLICT (whatsapp_id) DO UPDATE SET
				full_name = EXCLUDED.full_name,
				is_bot_started = EXCLUDED.is_bot_started OR users.is_bot_started,
				updated_at = now()
			RETURNING id, telegram_id, whatsapp_id, full_name, is_bot_started, created_at, updated_at
		`, *u.WhatsAppID, u.FullName, u.IsBotStarted)
	default:
		return domain.User{}, domain.Validation("user requires a telegram_id or whatsapp_id")
	}
	return scanUser(row)
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.WhatsAppID, &u.FullName, &u.IsBotStarted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
