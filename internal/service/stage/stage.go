// Package stage implements stage/sub-stage status and payment lifecycle
// transitions, checkpoint gating, and launch-readiness checks.
package stage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// Service manages the stage pipeline for a project.
type Service struct {
	stages    repository.StageRepository
	subs      repository.SubStageRepository
	changelog repository.ChangeLogRepository
}

func New(stages repository.StageRepository, subs repository.SubStageRepository, changelog repository.ChangeLogRepository) Service {
	return Service{stages: stages, subs: subs, changelog: changelog}
}

func (s Service) List(ctx context.Context, projectID uuid.UUID) ([]domain.Stage, error) {
	return s.stages.ListByProject(ctx, projectID)
}

func (s Service) Get(ctx context.Context, id uuid.UUID) (domain.Stage, error) {
	return s.stages.Get(ctx, id)
}

// Configure sets a stage's schedule and responsible party, parsing
// free-text dates with ParseDate. DurationDays, when set, computes EndDate
// as StartDate + DurationDays instead of taking EndDateRaw literally; it
// requires a start date already on the stage or set in the same call.
type ConfigureParams struct {
	StageID            uuid.UUID
	Budget             *float64
	StartDateRaw       *string
	EndDateRaw         *string
	DurationDays       *int
	ResponsibleUserID  *uuid.UUID
	ResponsibleContact *string
}

func (s Service) Configure(ctx context.Context, p ConfigureParams) (domain.Stage, error) {
	existing, err := s.stages.Get(ctx, p.StageID)
	if err != nil {
		return domain.Stage{}, err
	}

	if p.Budget != nil {
		existing.Budget = p.Budget
	}
	if p.StartDateRaw != nil {
		t, err := ParseDate(*p.StartDateRaw)
		if err != nil {
			return domain.Stage{}, err
		}
		existing.StartDate = &t
	}
	if p.EndDateRaw != nil {
		t, err := ParseDate(*p.EndDateRaw)
		if err != nil {
			return domain.Stage{}, err
		}
		existing.EndDate = &t
	}
	if p.DurationDays != nil {
		if existing.StartDate == nil {
			return domain.Stage{}, domain.Validation("set a start date before a duration")
		}
		end := existing.StartDate.AddDate(0, 0, *p.DurationDays)
		existing.EndDate = &end
	}
	if existing.StartDate != nil && existing.EndDate != nil && existing.EndDate.Before(*existing.StartDate) {
		return domain.Stage{}, domain.Validation("end date cannot precede start date")
	}
	if p.ResponsibleUserID != nil {
		existing.ResponsibleUserID = p.ResponsibleUserID
	}
	if p.ResponsibleContact != nil {
		existing.ResponsibleContact = p.ResponsibleContact
	}

	return s.stages.Update(ctx, existing)
}

// LaunchReady reports whether a stage has enough configuration to leave
// planned: a start date. Responsible party and budget are recommended but
// non-blocking — see LaunchWarnings.
func (s Service) LaunchReady(st domain.Stage) bool {
	return st.StartDate != nil
}

// LaunchWarnings lists non-blocking gaps across a project's main stages
// (start date, responsible party, budget), surfaced alongside a successful
// launch rather than gating it.
func (s Service) LaunchWarnings(stages []domain.Stage) []string {
	var warnings []string
	for _, st := range stages {
		if st.IsParallel {
			continue
		}
		var missing []string
		if st.StartDate == nil {
			missing = append(missing, "start date")
		}
		if st.ResponsibleUserID == nil && (st.ResponsibleContact == nil || *st.ResponsibleContact == "") {
			missing = append(missing, "responsible")
		}
		if st.Budget == nil {
			missing = append(missing, "budget")
		}
		if len(missing) > 0 {
			warnings = append(warnings, st.Name+" is missing "+strings.Join(missing, ", "))
		}
	}
	return warnings
}

// AddSubStages bulk-creates checklist items under a stage from
// newline-separated text, one name per line, ordered after any existing
// sub-stages.
func (s Service) AddSubStages(ctx context.Context, stageID uuid.UUID, text string) ([]domain.SubStage, error) {
	existing, err := s.subs.ListByStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	base := len(existing)

	var toCreate []domain.SubStage
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		toCreate = append(toCreate, domain.SubStage{
			StageID: stageID,
			Name:    name,
			Order:   base + len(toCreate) + 1,
			Status:  domain.StagePlanned,
		})
	}
	if len(toCreate) == 0 {
		return nil, domain.Validation("no sub-stage names found — send one per line")
	}
	return s.subs.CreateMany(ctx, toCreate)
}

// SetStatus transitions a stage's StageStatus directly, for moves other than
// into completed — launching the first stage into in_progress, or manually
// marking one delayed. Use Complete for the checkpoint-gated move to
// completed.
func (s Service) SetStatus(ctx context.Context, actorID, stageID uuid.UUID, status domain.StageStatus) error {
	st, err := s.stages.Get(ctx, stageID)
	if err != nil {
		return err
	}
	if err := s.stages.UpdateStatus(ctx, stageID, status); err != nil {
		return err
	}
	return s.appendStatusChange(ctx, st, status, actorID, nil)
}

// Complete reports a stage's work as done. Checkpoint stages halt at
// pending_approval instead of completing outright — halted is true, and the
// caller is responsible for notifying the project owner — who must then
// call ApproveCheckpoint or RejectCheckpoint. Non-checkpoint stages move
// straight to completed and auto-advance the next main stage.
func (s Service) Complete(ctx context.Context, actorID, stageID uuid.UUID) (halted bool, err error) {
	st, err := s.stages.Get(ctx, stageID)
	if err != nil {
		return false, err
	}

	if st.IsCheckpoint {
		if err := s.stages.UpdateStatus(ctx, stageID, domain.StagePendingApproval); err != nil {
			return false, err
		}
		return true, s.appendStatusChange(ctx, st, domain.StagePendingApproval, actorID, nil)
	}

	if err := s.stages.UpdateStatus(ctx, stageID, domain.StageCompleted); err != nil {
		return false, err
	}
	if err := s.appendStatusChange(ctx, st, domain.StageCompleted, actorID, nil); err != nil {
		return false, err
	}
	return false, s.advanceNext(ctx, st, actorID)
}

// ApproveCheckpoint completes a halted checkpoint stage and auto-advances
// the pipeline, recording approvedBy as the confirming user.
func (s Service) ApproveCheckpoint(ctx context.Context, stageID, approvedBy uuid.UUID) error {
	st, err := s.stages.Get(ctx, stageID)
	if err != nil {
		return err
	}
	if st.Status != domain.StagePendingApproval {
		return domain.Validation("this stage isn't waiting on approval")
	}
	if err := s.stages.UpdateStatus(ctx, stageID, domain.StageCompleted); err != nil {
		return err
	}
	if err := s.appendStatusChange(ctx, st, domain.StageCompleted, approvedBy, &approvedBy); err != nil {
		return err
	}
	return s.advanceNext(ctx, st, approvedBy)
}

// RejectCheckpoint sends a halted checkpoint stage back to delayed so the
// responsible party can rework it before resubmitting.
func (s Service) RejectCheckpoint(ctx context.Context, stageID, rejectedBy uuid.UUID) error {
	st, err := s.stages.Get(ctx, stageID)
	if err != nil {
		return err
	}
	if st.Status != domain.StagePendingApproval {
		return domain.Validation("this stage isn't waiting on approval")
	}
	if err := s.stages.UpdateStatus(ctx, stageID, domain.StageDelayed); err != nil {
		return err
	}
	return s.appendStatusChange(ctx, st, domain.StageDelayed, rejectedBy, nil)
}

// advanceNext moves the next sequential main stage from planned to
// in_progress once a stage completes. Furniture sub-pipelines (IsParallel)
// neither chain nor get chained into.
func (s Service) advanceNext(ctx context.Context, completed domain.Stage, actorID uuid.UUID) error {
	if completed.IsParallel {
		return nil
	}
	all, err := s.stages.ListByProject(ctx, completed.ProjectID)
	if err != nil {
		return err
	}
	var next *domain.Stage
	for i := range all {
		if all[i].IsParallel || all[i].Order <= completed.Order {
			continue
		}
		if next == nil || all[i].Order < next.Order {
			next = &all[i]
		}
	}
	if next == nil || next.Status != domain.StagePlanned {
		return nil
	}
	if err := s.stages.UpdateStatus(ctx, next.ID, domain.StageInProgress); err != nil {
		return err
	}
	return s.appendStatusChange(ctx, *next, domain.StageInProgress, actorID, nil)
}

func (s Service) appendStatusChange(ctx context.Context, st domain.Stage, to domain.StageStatus, actorID uuid.UUID, confirmedBy *uuid.UUID) error {
	old := string(st.Status)
	newVal := string(to)
	return s.changelog.Append(ctx, domain.ChangeLog{
		ProjectID: st.ProjectID, UserID: &actorID, EntityType: "stage", EntityID: st.ID,
		FieldName: "status", OldValue: &old, NewValue: &newVal, ConfirmedByUserID: confirmedBy,
	})
}

// SetPaymentStatus validates the transition against domain.PaymentTransitions
// before persisting it, appending a ChangeLog row for the move.
func (s Service) SetPaymentStatus(ctx context.Context, actorID, stageID uuid.UUID, to domain.PaymentStatus) error {
	current, err := s.stages.Get(ctx, stageID)
	if err != nil {
		return err
	}
	if !domain.CanTransitionPayment(current.PaymentStatus, to) {
		return domain.Validation("that payment status change isn't allowed from " + string(current.PaymentStatus))
	}
	if err := s.stages.UpdatePaymentStatus(ctx, stageID, to); err != nil {
		return err
	}
	old := string(current.PaymentStatus)
	newVal := string(to)
	return s.changelog.Append(ctx, domain.ChangeLog{
		ProjectID: current.ProjectID, UserID: &actorID, EntityType: "stage", EntityID: stageID,
		FieldName: "payment_status", OldValue: &old, NewValue: &newVal,
	})
}

// IsIdle reports whether an in-progress stage has had no activity for
// longer than threshold; stages in any other status are never idle.
func IsIdle(st domain.Stage, threshold time.Duration, now time.Time) bool {
	if st.Status != domain.StageInProgress {
		return false
	}
	return now.Sub(st.LastActivityAt) > threshold
}

func (s Service) SubStages(ctx context.Context, stageID uuid.UUID) ([]domain.SubStage, error) {
	return s.subs.ListByStage(ctx, stageID)
}

func (s Service) SetSubStageStatus(ctx context.Context, subStageID uuid.UUID, status domain.StageStatus) error {
	return s.subs.UpdateStatus(ctx, subStageID, status)
}
