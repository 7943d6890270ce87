package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// ViewRepository refreshes the two materialized views for the scheduler and
// reads mv_stage_progress; nothing here reads mv_budget_summary.
type ViewRepository struct {
	pool Pool
}

func NewViewRepository(pool Pool) ViewRepository {
	return ViewRepository{pool: pool}
}

// RefreshBudgetSummary and RefreshStageProgress are invoked by the
// scheduler's 60-second cache-maintenance job (CONCURRENTLY requires the unique
// indexes created alongside each view).
func (r ViewRepository) RefreshBudgetSummary(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `REFRESH MATERIALIZED VIEW CONCURRENTLY mv_budget_summary`)
	if err != nil {
		return domain.Unexpected("repository: refreshing budget summary view", err)
	}
	return nil
}

func (r ViewRepository) RefreshStageProgress(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `REFRESH MATERIALIZED VIEW CONCURRENTLY mv_stage_progress`)
	if err != nil {
		return domain.Unexpected("repository: refreshing stage progress view", err)
	}
	return nil
}

// StageProgress is one row of mv_stage_progress.
type StageProgress struct {
	ProjectID      uuid.UUID
	CompletedCount int
	TotalCount     int
}

func (r ViewRepository) StageProgressFor(ctx context.Context, projectID uuid.UUID) (StageProgress, error) {
	var sp StageProgress
	sp.ProjectID = projectID
	err := r.pool.QueryRow(ctx, `
		SELECT completed_count, total_count FROM mv_stage_progress WHERE project_id = $1
	`, projectID).Scan(&sp.CompletedCount, &sp.TotalCount)
	if err != nil {
		return StageProgress{}, notFoundIf(err, "stage progress")
	}
	return sp, nil
}
