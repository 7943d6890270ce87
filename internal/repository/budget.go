package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// BudgetItemRepository persists BudgetItem rows.
type BudgetItemRepository struct {
	pool Pool
}

func NewBudgetItemRepository(pool Pool) BudgetItemRepository {
	return BudgetItemRepository{pool: pool}
}

func (r BudgetItemRepository) Create(ctx context.Context, b domain.BudgetItem) (domain.BudgetItem, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO budget_items (project_id, stage_id, category, description, work_cost, material_cost, prepayment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, project_id, stage_id, category, description, work_cost, material_cost, prepayment,
			is_confirmed, confirmed_by_user_id, created_at, updated_at
	`, b.ProjectID, b.StageID, b.Category, b.Description, b.WorkCost, b.MaterialCost, b.Prepayment)
	return scanBudgetItem(row)
}

func (r BudgetItemRepository) Get(ctx context.Context, id uuid.UUID) (domain.BudgetItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, project_id, stage_id, category, description, work_cost, material_cost, prepayment,
			is_confirmed, confirmed_by_user_id, created_at, updated_at
		FROM budget_items WHERE id = $1
	`, id)
	b, err := scanBudgetItem(row)
	if err != nil {
		return domain.BudgetItem{}, notFoundIf(err, "budget item")
	}
	return b, nil
}

func (r BudgetItemRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.BudgetItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, stage_id, category, description, work_cost, material_cost, prepayment,
			is_confirmed, confirmed_by_user_id, created_at, updated_at
		FROM budget_items WHERE project_id = $1 ORDER BY created_at
	`, projectID)
	if err != nil {
		return nil, domain.Unexpected("repository: listing budget items", err)
	}
	defer rows.Close()

	var out []domain.BudgetItem
	for rows.Next() {
		b, err := scanBudgetItem(rows)
		if err != nil {
			return nil, domain.Unexpected("repository: scanning budget item", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BudgetItemRepository) Confirm(ctx context.Context, id, confirmedBy uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE budget_items SET is_confirmed = TRUE, confirmed_by_user_id = $2, updated_at = now() WHERE id = $1
	`, id, confirmedBy)
	if err != nil {
		return domain.Unexpected("repository: confirming budget item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("budget item not found")
	}
	return nil
}

// SummaryByCategory runs a live aggregation rather than reading
// mv_budget_summary: the budget service and the scheduler's overspending
// job both call it and get always-fresh totals; the materialized view is
// refreshed by the scheduler but not read by either.
func (r BudgetItemRepository) SummaryByCategory(ctx context.Context, projectID uuid.UUID) ([]domain.CategorySummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT bi.category, sum(bi.work_cost), sum(bi.material_cost), sum(bi.prepayment),
			count(*), count(*) FILTER (WHERE bi.is_confirmed)
		FROM budget_items bi WHERE bi.project_id = $1 GROUP BY bi.category
	`, projectID)
	if err != nil {
		return nil, domain.Unexpected("repository: summarizing budget", err)
	}
	defer rows.Close()

	var out []domain.CategorySummary
	for rows.Next() {
		var s domain.CategorySummary
		if err := rows.Scan(&s.Category, &s.WorkCost, &s.MaterialCost, &s.Prepayment, &s.ItemCount, &s.ConfirmedCount); err != nil {
			return nil, domain.Unexpected("repository: scanning budget summary", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanBudgetItem(row rowScanner) (domain.BudgetItem, error) {
	var b domain.BudgetItem
	err := row.Scan(
		&b.ID, &b.ProjectID, &b.StageID, &b.Category, &b.Description, &b.WorkCost, &b.MaterialCost,
		&b.Prepayment, &b.IsConfirmed, &b.ConfirmedByUserID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return domain.BudgetItem{}, err
	}
	return b, nil
}
