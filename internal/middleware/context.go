package middleware

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

const cacheTTL = 600 * time.Second

// RequestContext is the per-event bag the context middleware attaches:
// the acting user, the active project (group chats only — private-chat
// resolution is the project resolver's job), and the user's roles on it.
type RequestContext struct {
	TenantID uuid.UUID
	User     domain.User
	Project  *domain.Project
	Roles    []domain.Role
}

// Context resolves and caches the (user, project) pair for an inbound
// event, using the same KV cache the scheduler sweeps.
type Context struct {
	cache    repository.CacheRepository
	users    repository.UserRepository
	projects repository.ProjectRepository
	roles    repository.ProjectRoleRepository
}

func NewContext(cache repository.CacheRepository, users repository.UserRepository, projects repository.ProjectRepository, roles repository.ProjectRoleRepository) Context {
	return Context{cache: cache, users: users, projects: projects, roles: roles}
}

// ResolveTelegramUser returns the internal User for a Telegram id, checking
// the `user:tg:<id>` cache key before falling back to the repository.
func (c Context) ResolveTelegramUser(ctx context.Context, telegramID int64) (domain.User, error) {
	key := "user:tg:" + strconv.FormatInt(telegramID, 10)
	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var id uuid.UUID
		if err := json.Unmarshal(raw, &id); err == nil {
			if u, err := c.users.Get(ctx, id); err == nil {
				return u, nil
			}
		}
	}

	u, err := c.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return domain.User{}, err
	}
	if raw, err := json.Marshal(u.ID); err == nil {
		_ = c.cache.Set(ctx, key, raw, cacheTTL)
	}
	return u, nil
}

// ResolveChatProject returns the internal Project linked to a platform
// chat, checking the `project:chat:<chat_id>` cache key first.
func (c Context) ResolveChatProject(ctx context.Context, platform, chatID string) (domain.Project, error) {
	key := "project:chat:" + platform + ":" + chatID
	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var id uuid.UUID
		if err := json.Unmarshal(raw, &id); err == nil {
			if p, err := c.projects.Get(ctx, id); err == nil {
				return p, nil
			}
		}
	}

	p, err := c.projects.GetByChat(ctx, platform, chatID)
	if err != nil {
		return domain.Project{}, err
	}
	if raw, err := json.Marshal(p.ID); err == nil {
		_ = c.cache.Set(ctx, key, raw, cacheTTL)
	}
	return p, nil
}

// Resolve builds the full RequestContext for a group-chat event. Roles are
// always read live — the spec deliberately leaves them uncached since they
// change often and are cheap to fetch.
func (c Context) Resolve(ctx context.Context, tenantID uuid.UUID, telegramID int64, platform, chatID string) (RequestContext, error) {
	user, err := c.ResolveTelegramUser(ctx, telegramID)
	if err != nil {
		return RequestContext{}, err
	}

	rc := RequestContext{TenantID: tenantID, User: user}

	project, err := c.ResolveChatProject(ctx, platform, chatID)
	if err != nil {
		if domain.Is(err, domain.CodeNotFound) {
			return rc, nil // no linked project yet; caller defers to the project resolver
		}
		return RequestContext{}, err
	}
	rc.Project = &project

	roles, err := c.roles.RolesForUser(ctx, project.ID, user.ID)
	if err != nil {
		return RequestContext{}, err
	}
	rc.Roles = roles

	return rc, nil
}
