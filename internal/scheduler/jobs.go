package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/renohub/core/internal/domain"
)

const statusUpdateIdleThreshold = 3 * 24 * time.Hour
const furnitureLeadTime = 45 * 24 * time.Hour

// runApproachingDeadlines emits deadline_approaching for in_progress or
// delayed stages whose end_date falls in (now, now+1d].
func (s *Scheduler) runApproachingDeadlines(ctx context.Context) error {
	now := time.Now()
	window := now.Add(24 * time.Hour)

	return s.forEachEligibleStage(ctx, func(p domain.Project, st domain.Stage) error {
		if !isApproaching(st.EndDate, now, window) {
			return nil
		}
		n, err := s.notify.Build(ctx, p.ID, domain.NotifyDeadlineApproaching,
			"Deadline approaching",
			fmt.Sprintf("%q is due %s.", st.Name, st.EndDate.Format("02.01.2006")),
			&st.ID, nil,
		)
		s.deliverIfAny(ctx, n, err)
		return nil
	})
}

// runOverdueStages emits deadline_overdue for in_progress/delayed stages
// whose end_date has already passed.
func (s *Scheduler) runOverdueStages(ctx context.Context) error {
	now := time.Now()

	return s.forEachEligibleStage(ctx, func(p domain.Project, st domain.Stage) error {
		if !isOverdue(st.EndDate, now) {
			return nil
		}
		n, err := s.notify.Build(ctx, p.ID, domain.NotifyDeadlineOverdue,
			"Stage overdue",
			fmt.Sprintf("%q was due %s and hasn't been marked complete.", st.Name, st.EndDate.Format("02.01.2006")),
			&st.ID, nil,
		)
		s.deliverIfAny(ctx, n, err)
		return nil
	})
}

// runStatusUpdatePrompts emits status_update_request for in_progress
// stages with a responsible user and no recent activity.
func (s *Scheduler) runStatusUpdatePrompts(ctx context.Context) error {
	now := time.Now()

	projects, err := s.allActiveProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		stages, err := s.stages.ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, st := range stages {
			if st.Status != domain.StageInProgress || st.ResponsibleUserID == nil {
				continue
			}
			if !isIdle(st.LastActivityAt, now, statusUpdateIdleThreshold) {
				continue
			}
			n, err := s.notify.Build(ctx, p.ID, domain.NotifyStatusUpdateRequest,
				"Status update needed",
				fmt.Sprintf("%q hasn't had an update in a few days — how's it going?", st.Name),
				&st.ID, nil,
			)
			s.deliverIfAny(ctx, n, err)
		}
	}
	return nil
}

// furnitureInstallSuffix matches the name project.Service.Create gives the
// installation step of a custom item's parallel sub-pipeline: "<item>: <name>",
// the last of domain.CustomItemSubStages.
const furnitureInstallSuffix = ": " + "установка"

// runFurnitureReminders emits furniture_order_reminder for parallel
// furniture-pipeline stages whose installation step starts within the lead
// time window. These are Stage rows themselves (is_parallel, named
// "<item>: установка"), not SubStage children of a parent stage.
func (s *Scheduler) runFurnitureReminders(ctx context.Context) error {
	now := time.Now()
	window := now.Add(furnitureLeadTime)

	projects, err := s.allActiveProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		stages, err := s.stages.ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, st := range stages {
			if !st.IsParallel || !strings.HasSuffix(st.Name, furnitureInstallSuffix) {
				continue
			}
			if !isApproaching(st.StartDate, now, window) {
				continue
			}
			n, err := s.notify.Build(ctx, p.ID, domain.NotifyFurnitureOrderReminder,
				"Furniture lead time",
				fmt.Sprintf("Installation for %q starts %s — confirm the order is placed.", st.Name, st.StartDate.Format("02.01.2006")),
				&st.ID, nil,
			)
			s.deliverIfAny(ctx, n, err)
		}
	}
	return nil
}

// runOverspending emits overspending_alert when a project's total spend
// exceeds its total budget.
func (s *Scheduler) runOverspending(ctx context.Context) error {
	projects, err := s.allActiveProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.TotalBudget == nil {
			continue
		}
		categories, err := s.items.SummaryByCategory(ctx, p.ID)
		if err != nil {
			return err
		}
		var spent float64
		for _, c := range categories {
			spent += c.WorkCost + c.MaterialCost
		}
		if spent <= *p.TotalBudget {
			continue
		}
		n, err := s.notify.Build(ctx, p.ID, domain.NotifyOverspendingAlert,
			"Over budget",
			fmt.Sprintf("Total spend %.0f exceeds the %.0f budget.", spent, *p.TotalBudget),
			nil, map[string]any{"spent": spent, "budget": *p.TotalBudget},
		)
		s.deliverIfAny(ctx, n, err)
	}
	return nil
}

// runWeeklyReport emits a weekly_report notification per active project;
// the report body itself is assembled by the report package from the
// caller side of Deliver, so this job just announces the event.
func (s *Scheduler) runWeeklyReport(ctx context.Context) error {
	projects, err := s.allActiveProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		n, err := s.notify.Build(ctx, p.ID, domain.NotifyWeeklyReport,
			"Weekly report",
			fmt.Sprintf("Weekly report for %q is ready.", p.Name),
			nil, nil,
		)
		s.deliverIfAny(ctx, n, err)
	}
	return nil
}

// runCacheMaintenance deletes expired cache rows and refreshes both
// materialized views; stale reads between refreshes are acceptable.
func (s *Scheduler) runCacheMaintenance(ctx context.Context) error {
	if _, err := s.cache.Cleanup(ctx); err != nil {
		return err
	}
	if err := s.views.RefreshBudgetSummary(ctx); err != nil {
		return err
	}
	return s.views.RefreshStageProgress(ctx)
}

// isApproaching reports whether deadline falls in (now, window].
func isApproaching(deadline *time.Time, now, window time.Time) bool {
	if deadline == nil {
		return false
	}
	return deadline.After(now) && !deadline.After(window)
}

// isOverdue reports whether deadline has already passed.
func isOverdue(deadline *time.Time, now time.Time) bool {
	if deadline == nil {
		return false
	}
	return deadline.Before(now)
}

// isIdle reports whether lastActivity is at least threshold in the past.
func isIdle(lastActivity, now time.Time, threshold time.Duration) bool {
	return now.Sub(lastActivity) >= threshold
}

// forEachEligibleStage iterates every in_progress/delayed stage across
// every active project, shared by the two deadline-window jobs.
func (s *Scheduler) forEachEligibleStage(ctx context.Context, fn func(p domain.Project, st domain.Stage) error) error {
	projects, err := s.allActiveProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		stages, err := s.stages.ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, st := range stages {
			if st.Status != domain.StageInProgress && st.Status != domain.StageDelayed {
				continue
			}
			if err := fn(p, st); err != nil {
				return err
			}
		}
	}
	return nil
}
