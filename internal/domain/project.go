package domain

import (
	"time"

	"github.com/google/uuid"
)

// RenovationType classifies the scope of a renovation project.
type RenovationType string

const (
	RenovationCosmetic RenovationType = "cosmetic"
	RenovationStandard RenovationType = "standard"
	RenovationMajor    RenovationType = "major"
	RenovationDesigner RenovationType = "designer"
)

func (t RenovationType) Valid() bool {
	switch t {
	case RenovationCosmetic, RenovationStandard, RenovationMajor, RenovationDesigner:
		return true
	default:
		return false
	}
}

// Project is a single apartment-renovation engagement, owned by exactly one
// Tenant and at most one linked group chat.
type Project struct {
	ID             uuid.UUID      `json:"id"`
	TenantID       uuid.UUID      `json:"tenant_id"`
	Name           string         `json:"name"`
	Address        *string        `json:"address,omitempty"`
	AreaSqm        *float64       `json:"area_sqm,omitempty"`
	RenovationType RenovationType `json:"renovation_type"`
	TotalBudget    *float64       `json:"total_budget,omitempty"`
	Platform       *string        `json:"platform,omitempty"`
	PlatformChatID *string        `json:"platform_chat_id,omitempty"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CustomItem is a furniture sub-pipeline a project owner can opt into at
// creation time.
type CustomItem string

const (
	CustomItemKitchen   CustomItem = "kitchen"
	CustomItemWardrobes CustomItem = "wardrobes"
	CustomItemWalkin    CustomItem = "walkin"
	CustomItemDoors     CustomItem = "doors"
)

func (c CustomItem) Valid() bool {
	switch c {
	case CustomItemKitchen, CustomItemWardrobes, CustomItemWalkin, CustomItemDoors:
		return true
	default:
		return false
	}
}
