package domain

import (
	"time"

	"github.com/google/uuid"
)

// BudgetCategory classifies a BudgetItem for per-category reporting.
type BudgetCategory string

const (
	CategoryElectrical BudgetCategory = "electrical"
	CategoryPlumbing   BudgetCategory = "plumbing"
	CategoryWalls      BudgetCategory = "walls"
	CategoryFlooring   BudgetCategory = "flooring"
	CategoryTiling     BudgetCategory = "tiling"
	CategoryCeilings   BudgetCategory = "ceilings"
	CategoryDoors      BudgetCategory = "doors"
	CategoryFurniture  BudgetCategory = "furniture"
	CategoryDemolition BudgetCategory = "demolition"
	CategoryPainting   BudgetCategory = "painting"
	CategoryOther      BudgetCategory = "other"
)

var AllCategories = []BudgetCategory{
	CategoryElectrical, CategoryPlumbing, CategoryWalls, CategoryFlooring,
	CategoryTiling, CategoryCeilings, CategoryDoors, CategoryFurniture,
	CategoryDemolition, CategoryPainting, CategoryOther,
}

func (c BudgetCategory) Valid() bool {
	for _, v := range AllCategories {
		if v == c {
			return true
		}
	}
	return false
}

// BudgetItem is one line of project spend.
type BudgetItem struct {
	ID                uuid.UUID      `json:"id"`
	ProjectID         uuid.UUID      `json:"project_id"`
	StageID           *uuid.UUID     `json:"stage_id,omitempty"`
	Category          BudgetCategory `json:"category"`
	Description       *string        `json:"description,omitempty"`
	WorkCost          float64        `json:"work_cost"`
	MaterialCost      float64        `json:"material_cost"`
	Prepayment        float64        `json:"prepayment"`
	IsConfirmed       bool           `json:"is_confirmed"`
	ConfirmedByUserID *uuid.UUID     `json:"confirmed_by_user_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Total is work + material cost (prepayment is a cash-flow figure, not
// additional spend).
func (b BudgetItem) Total() float64 { return b.WorkCost + b.MaterialCost }

// BudgetHealth classifies how a project's spend compares to its total
// budget.
type BudgetHealth string

const (
	HealthOK      BudgetHealth = "ok"
	HealthWarning BudgetHealth = "warning"
	HealthOver    BudgetHealth = "over"
)

// ClassifyHealth applies the spec's 90%/100% thresholds.
func ClassifyHealth(spent, budget float64) BudgetHealth {
	if budget <= 0 {
		return HealthOK
	}
	ratio := spent / budget
	switch {
	case ratio > 1.0:
		return HealthOver
	case ratio >= 0.9:
		return HealthWarning
	default:
		return HealthOK
	}
}

// CategorySummary aggregates BudgetItems sharing a category.
type CategorySummary struct {
	Category       BudgetCategory `json:"category"`
	WorkCost       float64        `json:"work_cost"`
	MaterialCost   float64        `json:"material_cost"`
	Prepayment     float64        `json:"prepayment"`
	ItemCount      int            `json:"item_count"`
	ConfirmedCount int            `json:"confirmed_count"`
}

// ProjectBudgetSummary is the total view returned by the budget service.
type ProjectBudgetSummary struct {
	TotalBudget   *float64          `json:"total_budget,omitempty"`
	TotalSpent    float64           `json:"total_spent"`
	TotalWork     float64           `json:"total_work"`
	TotalMaterial float64           `json:"total_material"`
	TotalPrepaid  float64           `json:"total_prepaid"`
	Health        BudgetHealth      `json:"health"`
	ByCategory    []CategorySummary `json:"by_category"`
}
