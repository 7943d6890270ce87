package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// ChangeLogRepository appends and reads audit rows. Rows are never updated
// or deleted once written.
type ChangeLogRepository struct {
	pool Pool
}

func NewChangeLogRepository(pool Pool) ChangeLogRepository {
	return ChangeLogRepository{pool: pool}
}

func (r ChangeLogRepository) Append(ctx context.Context, c domain.ChangeLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO change_log (project_id, user_id, entity_type, entity_id, field_name, old_value, new_value, confirmed_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ProjectID, c.UserID, c.EntityType, c.EntityID, c.FieldName, c.OldValue, c.NewValue, c.ConfirmedByUserID)
	if err != nil {
		return domain.Unexpected("repository: appending change log", err)
	}
	return nil
}

func (r ChangeLogRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ChangeLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, user_id, entity_type, entity_id, field_name, old_value, new_value, confirmed_by_user_id, created_at
		FROM change_log WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2
	`, projectID, limit)
	if err != nil {
		return nil, domain.Unexpected("repository: listing change log", err)
	}
	defer rows.Close()

	var out []domain.ChangeLog
	for rows.Next() {
		var c domain.ChangeLog
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.UserID, &c.EntityType, &c.EntityID, &c.FieldName, &c.OldValue, &c.NewValue, &c.ConfirmedByUserID, &c.CreatedAt); err != nil {
			return nil, domain.Unexpected("repository: scanning change log", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
