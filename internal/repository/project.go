package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/renohub/core/internal/domain"
)

// ProjectRepository persists Project rows.
type ProjectRepository struct {
	pool Pool
}

func NewProjectRepository(pool Pool) ProjectRepository {
	return ProjectRepository{pool: pool}
}

func (r ProjectRepository) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (tenant_id, name, address, area_sqm, renovation_type, total_budget, platform, platform_chat_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, tenant_id, name, address, area_sqm, renovation_type, total_budget, platform, platform_chat_id, is_active, created_at, updated_at
	`, p.TenantID, p.Name, p.Address, p.AreaSqm, p.RenovationType, p.TotalBudget, p.Platform, p.PlatformChatID, p.IsActive)
	out, err := scanProject(row)
	if err != nil {
		return domain.Project{}, wrapChatLinkConflict(err)
	}
	return out, nil
}

func (r ProjectRepository) Get(ctx context.Context, id uuid.UUID) (domain.Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, address, area_sqm, renovation_type, total_budget, platform, platform_chat_id, is_active, created_at, updated_at
		FROM projects WHERE id = $1
	`, id)
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, notFoundIf(err, "project")
	}
	return p, nil
}

func (r ProjectRepository) GetByChat(ctx context.Context, platform, chatID string) (domain.Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, address, area_sqm, renovation_type, total_budget, platform, platform_chat_id, is_active, created_at, updated_at
		FROM projects WHERE platform = $1 AND platform_chat_id = $2 AND is_active
	`, platform, chatID)
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, notFoundIf(err, "project")
	}
	return p, nil
}

// LinkChat binds a project to a platform chat. The partial unique index on
// (platform, platform_chat_id) rejects re-linking a chat already bound to a
// different active project.
func (r ProjectRepository) LinkChat(ctx context.Context, id uuid.UUID, platform, chatID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET platform = $2, platform_chat_id = $3, updated_at = now() WHERE id = $1
	`, id, platform, chatID)
	if err != nil {
		return wrapChatLinkConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("project not found")
	}
	return nil
}

// SetActive soft-deletes or reactivates a project; rows are never hard
// deleted while stages, budget items, and change logs reference them.
func (r ProjectRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE projects SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return domain.Unexpected("repository: setting project active flag", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("project not found")
	}
	return nil
}

func (r ProjectRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, name, address, area_sqm, renovation_type, total_budget, platform, platform_chat_id, is_active, created_at, updated_at
		FROM projects WHERE tenant_id = $1 AND is_active ORDER BY created_at
	`, tenantID)
	if err != nil {
		return nil, domain.Unexpected("repository: listing projects", err)
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, domain.Unexpected("repository: scanning project", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProject(row rowScanner) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Address, &p.AreaSqm, &p.RenovationType,
		&p.TotalBudget, &p.Platform, &p.PlatformChatID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func wrapChatLinkConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.Integrity("this chat is already linked to another project", nil)
	}
	return notFoundIf(err, "project")
}
