package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/renohub/core/internal/domain"
)

// MessageRepository persists ingested chat events.
type MessageRepository struct {
	pool Pool
}

func NewMessageRepository(pool Pool) MessageRepository {
	return MessageRepository{pool: pool}
}

// Ingest stores a message, relying on the partial unique index on
// (platform, platform_chat_id, platform_message_id) to make redelivery a
// no-op: ok=false with no error means this message was already stored.
func (r MessageRepository) Ingest(ctx context.Context, m domain.Message) (out domain.Message, ok bool, err error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (project_id, user_id, platform, platform_chat_id, platform_message_id,
			message_type, raw_text, file_ref, transcribed_text, is_from_bot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, project_id, user_id, platform, platform_chat_id, platform_message_id,
			message_type, raw_text, file_ref, transcribed_text, is_from_bot, created_at
	`, m.ProjectID, m.UserID, m.Platform, m.PlatformChatID, m.PlatformMessageID,
		m.MessageType, m.RawText, m.FileRef, m.TranscribedText, m.IsFromBot)

	out, err = scanMessage(row)
	if err == nil {
		return out, true, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.Message{}, false, nil
	}
	return domain.Message{}, false, domain.Unexpected("repository: ingesting message", err)
}

// RecentByProject returns the last n messages for a project in
// chronological order, used to build participant summaries and the
// sliding chat window.
func (r MessageRepository) RecentByProject(ctx context.Context, projectID uuid.UUID, n int) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, user_id, platform, platform_chat_id, platform_message_id,
			message_type, raw_text, file_ref, transcribed_text, is_from_bot, created_at
		FROM messages WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2
	`, projectID, n)
	if err != nil {
		return nil, domain.Unexpected("repository: listing messages", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, domain.Unexpected("repository: scanning message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(out)
	return out, nil
}

func reverse(m []domain.Message) {
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}

func scanMessage(row rowScanner) (domain.Message, error) {
	var m domain.Message
	err := row.Scan(
		&m.ID, &m.ProjectID, &m.UserID, &m.Platform, &m.PlatformChatID, &m.PlatformMessageID,
		&m.MessageType, &m.RawText, &m.FileRef, &m.TranscribedText, &m.IsFromBot, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, domain.NotFound("message not found")
		}
		return domain.Message{}, err
	}
	return m, nil
}
