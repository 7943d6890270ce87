// Package budget implements budget item management, category/project
// summaries, and health classification.
package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// Service manages budget items and derives spend summaries.
type Service struct {
	items     repository.BudgetItemRepository
	projects  repository.ProjectRepository
	changelog repository.ChangeLogRepository
}

func New(items repository.BudgetItemRepository, projects repository.ProjectRepository, changelog repository.ChangeLogRepository) Service {
	return Service{items: items, projects: projects, changelog: changelog}
}

// AddItemParams is the input to AddItem; WorkCost/MaterialCost/Prepayment
// arrive as already-parsed floats — callers in the chat adapter should run
// user-typed amounts through ParseAmount first.
type AddItemParams struct {
	ProjectID    uuid.UUID
	StageID      *uuid.UUID
	UserID       uuid.UUID
	Category     domain.BudgetCategory
	Description  *string
	WorkCost     float64
	MaterialCost float64
	Prepayment   float64
}

func (s Service) AddItem(ctx context.Context, p AddItemParams) (domain.BudgetItem, error) {
	if !p.Category.Valid() {
		return domain.BudgetItem{}, domain.Validation("invalid budget category")
	}
	if p.WorkCost < 0 || p.MaterialCost < 0 || p.Prepayment < 0 {
		return domain.BudgetItem{}, domain.Validation("amounts cannot be negative")
	}
	created, err := s.items.Create(ctx, domain.BudgetItem{
		ProjectID: p.ProjectID, StageID: p.StageID, Category: p.Category,
		Description: p.Description, WorkCost: p.WorkCost, MaterialCost: p.MaterialCost, Prepayment: p.Prepayment,
	})
	if err != nil {
		return domain.BudgetItem{}, err
	}

	newVal := string(p.Category)
	if err := s.changelog.Append(ctx, domain.ChangeLog{
		ProjectID: p.ProjectID, UserID: &p.UserID, EntityType: "budget_item", EntityID: created.ID,
		FieldName: "category", NewValue: &newVal,
	}); err != nil {
		return domain.BudgetItem{}, err
	}
	return created, nil
}

// Confirm marks a budget item as confirmed by confirmedBy, matching the
// PermConfirmBudget gate enforced by the caller.
func (s Service) Confirm(ctx context.Context, itemID, confirmedBy uuid.UUID) error {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.items.Confirm(ctx, itemID, confirmedBy); err != nil {
		return err
	}
	confirmed := "confirmed"
	return s.changelog.Append(ctx, domain.ChangeLog{
		ProjectID: item.ProjectID, UserID: &confirmedBy, EntityType: "budget_item", EntityID: itemID,
		FieldName: "status", NewValue: &confirmed, ConfirmedByUserID: &confirmedBy,
	})
}

// Summary builds the project-wide budget summary, classifying health
// against the project's total_budget.
func (s Service) Summary(ctx context.Context, projectID uuid.UUID) (domain.ProjectBudgetSummary, error) {
	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return domain.ProjectBudgetSummary{}, err
	}
	categories, err := s.items.SummaryByCategory(ctx, projectID)
	if err != nil {
		return domain.ProjectBudgetSummary{}, err
	}

	var totalWork, totalMaterial, totalPrepaid float64
	for _, c := range categories {
		totalWork += c.WorkCost
		totalMaterial += c.MaterialCost
		totalPrepaid += c.Prepayment
	}
	totalSpent := totalWork + totalMaterial

	var budget float64
	if proj.TotalBudget != nil {
		budget = *proj.TotalBudget
	}

	return domain.ProjectBudgetSummary{
		TotalBudget:   proj.TotalBudget,
		TotalSpent:    totalSpent,
		TotalWork:     totalWork,
		TotalMaterial: totalMaterial,
		TotalPrepaid:  totalPrepaid,
		Health:        domain.ClassifyHealth(totalSpent, budget),
		ByCategory:    categories,
	}, nil
}

func (s Service) ListItems(ctx context.Context, projectID uuid.UUID) ([]domain.BudgetItem, error) {
	return s.items.ListByProject(ctx, projectID)
}
