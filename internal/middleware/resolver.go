package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// ResolutionKind tags which rule of the decision table fired.
type ResolutionKind string

const (
	ResolvedDirect      ResolutionKind = "direct"       // rules 1 and 3: exactly one candidate
	ResolvedNeedsLink   ResolutionKind = "needs_link"   // rule 2: group chat with nothing linked
	ResolvedNeedsPicker ResolutionKind = "needs_picker" // rule 4: private chat, N>1 projects
	ResolvedNeedsCreate ResolutionKind = "needs_create" // rule 5: private chat, zero projects
)

// Resolution is the project resolver's answer for one action.
type Resolution struct {
	Kind     ResolutionKind
	Project  *domain.Project
	Projects []domain.Project // populated for ResolvedNeedsPicker
}

// Resolver is the single policy point answering "which project is this
// action for?" Every listing is filtered by tenantID so tenants never see
// each other's projects.
type Resolver struct {
	projects repository.ProjectRepository
}

func NewResolver(projects repository.ProjectRepository) Resolver {
	return Resolver{projects: projects}
}

// ResolveGroupChat implements rules 1-2.
func (r Resolver) ResolveGroupChat(ctx context.Context, platform, chatID string) (Resolution, error) {
	p, err := r.projects.GetByChat(ctx, platform, chatID)
	if err != nil {
		if domain.Is(err, domain.CodeNotFound) {
			return Resolution{Kind: ResolvedNeedsLink}, nil
		}
		return Resolution{}, err
	}
	return Resolution{Kind: ResolvedDirect, Project: &p}, nil
}

// ResolvePrivateChat implements rules 3-5, scoped to the projects userID
// owns within tenantID.
func (r Resolver) ResolvePrivateChat(ctx context.Context, tenantID, userID uuid.UUID, ownedProjects []domain.Project) (Resolution, error) {
	switch len(ownedProjects) {
	case 0:
		return Resolution{Kind: ResolvedNeedsCreate}, nil
	case 1:
		p := ownedProjects[0]
		return Resolution{Kind: ResolvedDirect, Project: &p}, nil
	default:
		return Resolution{Kind: ResolvedNeedsPicker, Projects: ownedProjects}, nil
	}
}

// ProjectsOwnedBy lists tenantID's active projects that userID holds the
// owner role on, the slice ResolvePrivateChat needs for rules 3-5.
func (r Resolver) ProjectsOwnedBy(ctx context.Context, tenantID, userID uuid.UUID, roles repository.ProjectRoleRepository) ([]domain.Project, error) {
	all, err := r.projects.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Project, 0, len(all))
	for _, p := range all {
		isOwner, err := roles.HasRole(ctx, p.ID, userID, domain.RoleOwner)
		if err != nil {
			return nil, err
		}
		if isOwner {
			owned = append(owned, p)
		}
	}
	return owned, nil
}
