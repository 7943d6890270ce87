// Package role implements membership management on top of the static
// permission table in internal/domain.
package role

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// Service grants, revokes, and checks project role membership.
type Service struct {
	roles repository.ProjectRoleRepository
}

func New(roles repository.ProjectRoleRepository) Service {
	return Service{roles: roles}
}

// Invite grants role to userID on projectID. Owner is never assignable by
// invitation; ownership changes hands only through the (out of scope)
// transfer flow.
func (s Service) Invite(ctx context.Context, projectID, userID uuid.UUID, role domain.Role) error {
	if role == domain.RoleOwner {
		return domain.Validation("owner cannot be granted by invitation")
	}
	if !role.Valid() {
		return domain.Validation("invalid role")
	}
	return s.roles.Grant(ctx, projectID, userID, role)
}

// Remove revokes role from userID. Removing the owner role is rejected
// outright, for any owner, since ownership transfer is out of scope.
func (s Service) Remove(ctx context.Context, projectID, userID uuid.UUID, role domain.Role) error {
	if role == domain.RoleOwner {
		return domain.Validation("owner cannot be removed")
	}
	return s.roles.Revoke(ctx, projectID, userID, role)
}

// Can reports whether userID holds any role granting perm on projectID.
func (s Service) Can(ctx context.Context, projectID, userID uuid.UUID, perm domain.Permission) (bool, error) {
	roles, err := s.roles.RolesForUser(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return domain.HasPermission(roles, perm), nil
}

// Require returns an authorization_error if userID lacks perm.
func (s Service) Require(ctx context.Context, projectID, userID uuid.UUID, perm domain.Permission) error {
	ok, err := s.Can(ctx, projectID, userID, perm)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Authorization("you don't have permission to do that")
	}
	return nil
}

// Members lists every membership row for a project.
func (s Service) Members(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectRole, error) {
	return s.roles.Members(ctx, projectID)
}
