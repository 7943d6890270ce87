package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// ProjectRoleRepository persists the (project, user, role) membership rows.
type ProjectRoleRepository struct {
	pool Pool
}

func NewProjectRoleRepository(pool Pool) ProjectRoleRepository {
	return ProjectRoleRepository{pool: pool}
}

func (r ProjectRoleRepository) Grant(ctx context.Context, projectID, userID uuid.UUID, role domain.Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project_roles (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id, role) DO NOTHING
	`, projectID, userID, role)
	if err != nil {
		return domain.Unexpected("repository: granting role", err)
	}
	return nil
}

func (r ProjectRoleRepository) Revoke(ctx context.Context, projectID, userID uuid.UUID, role domain.Role) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM project_roles WHERE project_id = $1 AND user_id = $2 AND role = $3
	`, projectID, userID, role)
	if err != nil {
		return domain.Unexpected("repository: revoking role", err)
	}
	return nil
}

// RolesForUser returns every role userID holds on projectID.
func (r ProjectRoleRepository) RolesForUser(ctx context.Context, projectID, userID uuid.UUID) ([]domain.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role FROM project_roles WHERE project_id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return nil, domain.Unexpected("repository: listing roles", err)
	}
	defer rows.Close()

	var out []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role); err != nil {
			return nil, domain.Unexpected("repository: scanning role", err)
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Members returns every ProjectRole row for a project.
func (r ProjectRoleRepository) Members(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectRole, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT project_id, user_id, role, created_at FROM project_roles WHERE project_id = $1
	`, projectID)
	if err != nil {
		return nil, domain.Unexpected("repository: listing members", err)
	}
	defer rows.Close()

	var out []domain.ProjectRole
	for rows.Next() {
		var pr domain.ProjectRole
		if err := rows.Scan(&pr.ProjectID, &pr.UserID, &pr.Role, &pr.CreatedAt); err != nil {
			return nil, domain.Unexpected("repository: scanning member", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// HasRole reports whether userID holds role on projectID without
// materializing the full role list, used by the project resolver's
// ProjectsOwnedBy scan.
func (r ProjectRoleRepository) HasRole(ctx context.Context, projectID, userID uuid.UUID, role domain.Role) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM project_roles WHERE project_id = $1 AND user_id = $2 AND role = $3)
	`, projectID, userID, role).Scan(&exists)
	if err != nil {
		return false, domain.Unexpected("repository: checking role", err)
	}
	return exists, nil
}
