// Package notification builds Notification values and resolves their
// recipients from a project's role membership.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// Service builds notifications and resolves their recipient user IDs.
type Service struct {
	roles repository.ProjectRoleRepository
}

func New(roles repository.ProjectRoleRepository) Service {
	return Service{roles: roles}
}

// recipients returns the distinct user IDs holding any of roles on
// projectID.
func (s Service) recipients(ctx context.Context, projectID uuid.UUID, roles []domain.Role) ([]uuid.UUID, error) {
	members, err := s.roles.Members(ctx, projectID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		wanted[r] = true
	}
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, m := range members {
		if wanted[m.Role] && !seen[m.UserID] {
			seen[m.UserID] = true
			out = append(out, m.UserID)
		}
	}
	return out, nil
}

// Build constructs a Notification of the given type with its recipients
// resolved from domain.RecipientRoles.
func (s Service) Build(ctx context.Context, projectID uuid.UUID, t domain.NotificationType, title, body string, stageID *uuid.UUID, extras map[string]any) (domain.Notification, error) {
	recipients, err := s.recipients(ctx, projectID, domain.RecipientRoles(t))
	if err != nil {
		return domain.Notification{}, err
	}
	return domain.Notification{
		Type: t, Title: title, Body: body, ProjectID: projectID,
		RecipientIDs: recipients, StageID: stageID, Extras: extras,
	}, nil
}

// CheckpointReached is a convenience constructor for the owner-only
// checkpoint approval prompt.
func (s Service) CheckpointReached(ctx context.Context, projectID uuid.UUID, stageID uuid.UUID, stageName string) (domain.Notification, error) {
	return s.Build(ctx, projectID, domain.NotifyCheckpointReached,
		"Checkpoint reached",
		fmt.Sprintf("%q is ready for your approval before the pipeline continues.", stageName),
		&stageID, nil,
	)
}

// OverspendingAlert builds an overspending_alert for one budget category.
// The scheduler's project-wide overspending job builds its alert through
// Build directly rather than through this constructor.
func (s Service) OverspendingAlert(ctx context.Context, projectID uuid.UUID, category domain.BudgetCategory, spent, budget float64) (domain.Notification, error) {
	return s.Build(ctx, projectID, domain.NotifyOverspendingAlert,
		"Over budget",
		fmt.Sprintf("%s spend is %.0f, over its %.0f budget.", category, spent, budget),
		nil, map[string]any{"category": category, "spent": spent, "budget": budget},
	)
}
