package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renohub/core/internal/domain"
)

// TenantRepository persists Tenant rows.
type TenantRepository struct {
	pool Pool
}

func NewTenantRepository(pool Pool) TenantRepository {
	return TenantRepository{pool: pool}
}

func (r TenantRepository) Create(ctx context.Context, t domain.Tenant) (domain.Tenant, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tenants (name, bot_token, bot_username, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, bot_token, bot_username, is_active, created_at, updated_at
	`, t.Name, t.BotToken, t.BotUsername, t.IsActive)
	return scanTenant(row)
}

func (r TenantRepository) Get(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, bot_token, bot_username, is_active, created_at, updated_at
		FROM tenants WHERE id = $1
	`, id)
	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, notFoundIf(err, "tenant")
	}
	return t, nil
}

func (r TenantRepository) GetByBotToken(ctx context.Context, token string) (domain.Tenant, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, bot_token, bot_username, is_active, created_at, updated_at
		FROM tenants WHERE bot_token = $1
	`, token)
	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, notFoundIf(err, "tenant")
	}
	return t, nil
}

func (r TenantRepository) ListActive(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, bot_token, bot_username, is_active, created_at, updated_at
		FROM tenants WHERE is_active ORDER BY created_at
	`)
	if err != nil {
		return nil, domain.Unexpected("repository: listing tenants", err)
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, domain.Unexpected("repository: scanning tenant", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r TenantRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tenants SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return domain.Unexpected("repository: updating tenant", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("tenant not found")
	}
	return nil
}

// UpdateUsername persists a bot's platform username, discovered by calling
// Adapter.Identify at supervisor startup.
func (r TenantRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tenants SET bot_username = $2, updated_at = now() WHERE id = $1`, id, username)
	if err != nil {
		return domain.Unexpected("repository: updating tenant username", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("tenant not found")
	}
	return nil
}

// Rename updates a tenant's display name, used by the admin API's partial
// PUT /tenants/{id} handler alongside SetActive.
func (r TenantRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tenants SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return domain.Unexpected("repository: renaming tenant", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("tenant not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.BotToken, &t.BotUsername, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Tenant{}, err
	}
	return t, nil
}

func notFoundIf(err error, entity string) error {
	if err == pgx.ErrNoRows {
		return domain.NotFound(entity + " not found")
	}
	return domain.Unexpected("repository: "+entity, err)
}
