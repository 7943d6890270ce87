package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainerspg "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/renohub/core/internal/config"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/migrations"
	"github.com/renohub/core/internal/repository"
)

// TestRepository_TenantAndProjectLifecycle exercises the repository layer
// against a real Postgres instance. Skipped when Docker is unavailable,
// the standard guard around testcontainers-backed integration suites.
func TestRepository_TenantAndProjectLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers integration test in -short mode")
	}

	ctx := context.Background()
	pgContainer, err := testcontainerspg.Run(ctx, "postgres:16-alpine",
		testcontainerspg.WithDatabase("renohub_test"),
		testcontainerspg.WithUsername("renohub"),
		testcontainerspg.WithPassword("renohub"),
	)
	if err != nil {
		t.Skipf("docker unavailable, skipping integration test: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dbCfg := config.DatabaseConfig{
		Host: host, Port: port.Int(), User: "renohub", Password: "renohub",
		Database: "renohub_test", SSLMode: "disable", MaxConns: 5, MinConns: 1,
		ConnMaxLifetime: time.Hour,
	}
	require.NoError(t, migrations.Up(dbCfg.DSN()))

	pool, err := repository.NewPool(ctx, dbCfg)
	require.NoError(t, err)
	defer pool.Close()

	tenants := repository.NewTenantRepository(pool)
	projects := repository.NewProjectRepository(pool)

	tenant, err := tenants.Create(ctx, domain.Tenant{
		Name: "demo tenant", BotToken: "tok-123", BotUsername: "demo_bot", IsActive: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tenant.ID)

	project, err := projects.Create(ctx, domain.Project{
		TenantID:       tenant.ID,
		Name:           "Квартира на Ленина",
		RenovationType: domain.RenovationStandard,
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, project.TenantID)

	platform, chatID := "telegram", "chat-1"
	require.NoError(t, projects.LinkChat(ctx, project.ID, platform, chatID))

	_, err = projects.Create(ctx, domain.Project{
		TenantID: tenant.ID, Name: "second project", RenovationType: domain.RenovationCosmetic,
		IsActive: true, Platform: &platform, PlatformChatID: &chatID,
	})
	assert.True(t, domain.Is(err, domain.CodeIntegrity), "re-linking a chat already bound to another project must fail as an integrity error")

	require.NoError(t, projects.SetActive(ctx, project.ID, false))
	reloaded, err := projects.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	require.NoError(t, projects.SetActive(ctx, project.ID, true))
	reloaded, err = projects.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsActive)

	err = projects.SetActive(ctx, uuid.New(), false)
	assert.True(t, domain.Is(err, domain.CodeNotFound))
}
