package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/renohub/core/internal/adapter"
	"github.com/renohub/core/internal/aiclient"
	"github.com/renohub/core/internal/bot"
	"github.com/renohub/core/internal/config"
	"github.com/renohub/core/internal/fsm"
	"github.com/renohub/core/internal/httpapi"
	"github.com/renohub/core/internal/logging"
	"github.com/renohub/core/internal/middleware"
	"github.com/renohub/core/internal/migrations"
	"github.com/renohub/core/internal/rag"
	"github.com/renohub/core/internal/repository"
	"github.com/renohub/core/internal/scheduler"
	"github.com/renohub/core/internal/service/budget"
	"github.com/renohub/core/internal/service/notification"
	"github.com/renohub/core/internal/service/project"
	"github.com/renohub/core/internal/service/role"
	"github.com/renohub/core/internal/service/stage"
	"github.com/renohub/core/internal/skills"
)

var (
	envFile     string
	httpAddr    string
	autoMigrate bool
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot pipeline, scheduler, and admin HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to a .env file (defaults to ./.env if present)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "address the admin HTTP API listens on")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "apply pending database migrations on startup")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.LogLevel)
	log.Info().Msg("starting renohub")

	if autoMigrate {
		if err := migrations.Up(cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := repository.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	tenants := repository.NewTenantRepository(pool)
	projects := repository.NewProjectRepository(pool)
	stages := repository.NewStageRepository(pool)
	subs := repository.NewSubStageRepository(pool)
	roles := repository.NewProjectRoleRepository(pool)
	items := repository.NewBudgetItemRepository(pool)
	users := repository.NewUserRepository(pool)
	cache := repository.NewCacheRepository(pool)
	views := repository.NewViewRepository(pool)
	embeddings := repository.NewEmbeddingRepository(pool)
	messages := repository.NewMessageRepository(pool)
	changelog := repository.NewChangeLogRepository(pool)

	chatClient, err := aiclient.New(cfg.AIProvider)
	if err != nil {
		return fmt.Errorf("building AI client: %w", err)
	}

	dirs := []string{"skills/builtin"}
	if cfg.SkillsDir != "" {
		dirs = append(dirs, cfg.SkillsDir)
	}
	skillRegistry, err := skills.Load(dirs)
	if err != nil {
		return fmt.Errorf("loading skills: %w", err)
	}

	embedder := rag.NewEmbeddingProvider(chatClient)
	ragEngine := rag.NewEngine(embeddings, embedder, chatClient, cache, skillRegistry)

	budgetSvc := budget.New(items, projects, changelog)
	notifySvc := notification.New(roles)
	projectSvc := project.New(projects, stages, subs, roles, changelog)
	roleSvc := role.New(roles)
	stageSvc := stage.New(stages, subs, changelog)

	gate, err := middleware.NewMentionGate(cfg.MentionGate)
	if err != nil {
		return fmt.Errorf("building mention gate: %w", err)
	}
	contextMW := middleware.NewContext(cache, users, projects, roles)
	resolver := middleware.NewResolver(projects)

	factory := adapter.Factory(func(botToken string) (adapter.Adapter, error) {
		return adapter.NewLoopback(botToken), nil
	})
	supervisor := adapter.NewSupervisor(logging.Component(log, "supervisor"), factory, tenants)
	deliverer := bot.NewNotificationDeliverer(logging.Component(log, "deliverer"), projects, users, supervisor)

	pipeline := bot.NewPipeline(
		logging.Component(log, "pipeline"), gate, contextMW, resolver,
		users, projects, roles, stages, messages, embeddings,
		budgetSvc, projectSvc, roleSvc, stageSvc, notifySvc,
		ragEngine, embedder, skillRegistry, chatClient, supervisor, deliverer, fsm.NewMemoryStore(),
	)

	if err := supervisor.Start(ctx, cfg.DefaultBotToken, pipeline.Handle); err != nil {
		return fmt.Errorf("starting adapter supervisor: %w", err)
	}
	defer supervisor.Shutdown()

	sched := scheduler.New(logging.Component(log, "scheduler"), tenants, projects, stages, subs, items, cache, views, notifySvc, deliverer)
	sched.Start(ctx)
	defer sched.Stop()

	admin := httpapi.New(tenants, cfg.AdminKey)
	httpServer := &http.Server{Addr: httpAddr, Handler: admin.Handler()}
	go func() {
		log.Info().Str("addr", httpAddr).Msg("admin HTTP API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("admin HTTP server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}
