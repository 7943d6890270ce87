// Package report produces the four structured reports the adapter layer
// formats for each platform: weekly, status, next-stage, and deadline.
// Reports are pure data — no markup — so a single Telegram or WhatsApp
// formatter can render either.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// WeeklyReport summarizes a project's stage pipeline and budget health
// over the trailing period.
type WeeklyReport struct {
	ProjectID         uuid.UUID
	CountsByStatus    map[domain.StageStatus]int
	CompletedThisWeek []domain.Stage
	Current           []domain.Stage
	Overdue           []domain.Stage
	Upcoming          []domain.Stage // start_date within the next 7 days
	Budget            domain.ProjectBudgetSummary
}

// StatusLine is one row of the compact Status report.
type StatusLine struct {
	Stage   domain.Stage
	Overdue bool
}

// StatusReport is a compact per-stage list with overdue flags.
type StatusReport struct {
	ProjectID uuid.UUID
	Lines     []StatusLine
}

// NextStageReport names the active main stage and the one that follows it.
type NextStageReport struct {
	ProjectID uuid.UUID
	Current   *domain.Stage
	Next      *domain.Stage
}

// DeadlineReport lists stages with an end_date within the lookahead window,
// plus any already overdue.
type DeadlineReport struct {
	ProjectID   uuid.UUID
	Approaching []domain.Stage
	Overdue     []domain.Stage
}

// BuildWeekly assembles the weekly report from a project's full stage list
// and its budget summary. now anchors the "this week"/"upcoming" windows.
func BuildWeekly(projectID uuid.UUID, stages []domain.Stage, budget domain.ProjectBudgetSummary, now time.Time) WeeklyReport {
	r := WeeklyReport{ProjectID: projectID, Budget: budget, CountsByStatus: map[domain.StageStatus]int{}}
	weekAgo := now.AddDate(0, 0, -7)
	weekAhead := now.AddDate(0, 0, 7)

	for _, s := range stages {
		r.CountsByStatus[s.Status]++

		if s.Status == domain.StageCompleted && s.UpdatedAt.After(weekAgo) {
			r.CompletedThisWeek = append(r.CompletedThisWeek, s)
		}
		if s.Status == domain.StageInProgress {
			r.Current = append(r.Current, s)
		}
		if s.EndDate != nil && s.EndDate.Before(now) && (s.Status == domain.StageInProgress || s.Status == domain.StageDelayed) {
			r.Overdue = append(r.Overdue, s)
		}
		if s.StartDate != nil && s.StartDate.After(now) && s.StartDate.Before(weekAhead) {
			r.Upcoming = append(r.Upcoming, s)
		}
	}
	return r
}

// BuildStatus lists every stage, parallel ones included, flagging a stage
// as overdue when its end_date has passed without reaching completed.
func BuildStatus(projectID uuid.UUID, stages []domain.Stage, now time.Time) StatusReport {
	r := StatusReport{ProjectID: projectID}
	for _, s := range stages {
		overdue := s.EndDate != nil && s.EndDate.Before(now) && s.Status != domain.StageCompleted
		r.Lines = append(r.Lines, StatusLine{Stage: s, Overdue: overdue})
	}
	return r
}

// BuildNextStage finds the current in-progress main stage (is_parallel
// false) and the next planned one by ascending order.
func BuildNextStage(projectID uuid.UUID, stages []domain.Stage) NextStageReport {
	r := NextStageReport{ProjectID: projectID}
	var current *domain.Stage
	for i := range stages {
		s := stages[i]
		if s.IsParallel {
			continue
		}
		if s.Status == domain.StageInProgress {
			current = &stages[i]
		}
	}
	r.Current = current

	if current == nil {
		return r
	}
	for i := range stages {
		s := stages[i]
		if s.IsParallel || s.Order <= current.Order {
			continue
		}
		if s.Status == domain.StagePlanned {
			r.Next = &stages[i]
			break
		}
	}
	return r
}

// BuildDeadlines splits stages into approaching (end_date within
// lookahead) and already-overdue buckets.
func BuildDeadlines(projectID uuid.UUID, stages []domain.Stage, lookahead time.Duration, now time.Time) DeadlineReport {
	r := DeadlineReport{ProjectID: projectID}
	horizon := now.Add(lookahead)
	for _, s := range stages {
		if s.EndDate == nil {
			continue
		}
		switch {
		case s.EndDate.Before(now):
			r.Overdue = append(r.Overdue, s)
		case s.EndDate.Before(horizon):
			r.Approaching = append(r.Approaching, s)
		}
	}
	return r
}
