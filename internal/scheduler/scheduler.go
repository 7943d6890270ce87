// Package scheduler runs the 7 fixed periodic jobs that scan domain state
// and emit notifications. Unlike a general-purpose cron service that stores
// and runs arbitrary user-authored jobs, this system has a small fixed job
// set known at compile time, so there is no persistent job store — just one
// goroutine per job cadence.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
	"github.com/renohub/core/internal/service/notification"
)

// Deliverer hands a built Notification off to whatever adapter pipeline
// should reach its recipients; the scheduler doesn't know about platforms.
type Deliverer interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// Scheduler owns the 7 fixed jobs and their goroutines.
type Scheduler struct {
	log zerolog.Logger

	tenants  repository.TenantRepository
	projects repository.ProjectRepository
	stages   repository.StageRepository
	subs     repository.SubStageRepository
	items    repository.BudgetItemRepository
	cache    repository.CacheRepository
	views    repository.ViewRepository
	notify   notification.Service
	deliver  Deliverer

	cron   *cron.Cron
	cancel context.CancelFunc
}

func New(
	log zerolog.Logger,
	tenants repository.TenantRepository,
	projects repository.ProjectRepository,
	stages repository.StageRepository,
	subs repository.SubStageRepository,
	items repository.BudgetItemRepository,
	cache repository.CacheRepository,
	views repository.ViewRepository,
	notify notification.Service,
	deliver Deliverer,
) *Scheduler {
	return &Scheduler{
		log: log, tenants: tenants, projects: projects, stages: stages, subs: subs,
		items: items, cache: cache, views: views, notify: notify, deliver: deliver,
	}
}

// job pairs a cadence with the function it runs; all jobs execute once
// immediately on Start to satisfy the "execute once on next startup" missed
// tick policy, then on their own ticker.
type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// Start launches every interval job on its own ticker goroutine and the
// weekly-report job on a robfig/cron schedule, all tied to ctx's lifetime.
func (s *Scheduler) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	jobs := []job{
		{"approaching-deadlines", time.Hour, s.runApproachingDeadlines},
		{"overdue-stages", 2 * time.Hour, s.runOverdueStages},
		{"status-update-prompts", 6 * time.Hour, s.runStatusUpdatePrompts},
		{"furniture-reminders", 24 * time.Hour, s.runFurnitureReminders},
		{"overspending", 4 * time.Hour, s.runOverspending},
		{"cache-maintenance", 60 * time.Second, s.runCacheMaintenance},
	}

	for _, j := range jobs {
		go s.loop(runCtx, j)
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc("0 9 * * MON", func() {
		s.runAndLog(runCtx, "weekly-report", s.runWeeklyReport)
	})
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: failed to register weekly-report cron entry")
	}
	s.cron.Start()
}

// Stop cancels every job's context and stops the cron runner.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	s.runAndLog(ctx, j.name, j.run)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAndLog(ctx, j.name, j.run)
		}
	}
}

// runAndLog wraps every job invocation in a recover + log-and-continue:
// one failing job must never stop the others, or the process.
func (s *Scheduler) runAndLog(ctx context.Context, name string, run func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("job", name).Msg("scheduler job panicked")
		}
	}()

	start := time.Now()
	if err := run(ctx); err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("scheduler job failed")
		return
	}
	s.log.Debug().Str("job", name).Dur("elapsed", time.Since(start)).Msg("scheduler job completed")
}

// allActiveProjects fans out over every active tenant to list its active
// projects; the fixed job set has no per-tenant parallelism requirement,
// so this runs sequentially.
func (s *Scheduler) allActiveProjects(ctx context.Context) ([]domain.Project, error) {
	tenants, err := s.tenants.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Project
	for _, t := range tenants {
		projects, err := s.projects.ListByTenant(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, projects...)
	}
	return out, nil
}

func (s *Scheduler) deliverIfAny(ctx context.Context, n domain.Notification, err error) {
	if err != nil {
		s.log.Error().Err(err).Str("notification_type", string(n.Type)).Msg("scheduler: building notification failed")
		return
	}
	if len(n.RecipientIDs) == 0 {
		return
	}
	if err := s.deliver.Deliver(ctx, n); err != nil {
		s.log.Error().Err(err).Str("notification_type", string(n.Type)).Msg("scheduler: delivering notification failed")
	}
}
