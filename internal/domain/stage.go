package domain

import (
	"time"

	"github.com/google/uuid"
)

// StageStatus is a main/sub-stage's position in its lifecycle.
type StageStatus string

const (
	StagePlanned    StageStatus = "planned"
	StageInProgress StageStatus = "in_progress"
	// StagePendingApproval is where a checkpoint stage halts once its work
	// is reported done: the owner must approve or reject it before the
	// pipeline advances.
	StagePendingApproval StageStatus = "pending_approval"
	StageCompleted       StageStatus = "completed"
	StageDelayed         StageStatus = "delayed"
)

// PaymentStatus is a stage's billing lifecycle, independent of StageStatus.
type PaymentStatus string

const (
	PaymentRecorded   PaymentStatus = "recorded"
	PaymentInProgress PaymentStatus = "in_progress"
	PaymentVerified   PaymentStatus = "verified"
	PaymentPaid       PaymentStatus = "paid"
	PaymentClosed     PaymentStatus = "closed"
)

// PaymentTransitions enumerates the allowed forward and rollback moves.
// closed is terminal: it has no outgoing edges.
var PaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentRecorded:   {PaymentInProgress},
	PaymentInProgress: {PaymentRecorded, PaymentVerified},
	PaymentVerified:   {PaymentInProgress, PaymentPaid},
	PaymentPaid:       {PaymentVerified, PaymentClosed},
	PaymentClosed:     {},
}

// CanTransitionPayment reports whether from -> to is an allowed move.
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range PaymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// The 13 standard main-stage names, in their fixed order. Index i
// corresponds to order i+1.
var StandardStageNames = []string{
	"Демонтаж",              // 1 Demolition
	"Черновые коммуникации", // 2 Rough utilities
	"Электрика",             // 3 Electrical (checkpoint)
	"Сантехника",            // 4 Plumbing (checkpoint)
	"Стяжка пола",           // 5 Floor screed
	"Плитка",                // 6 Tiling (checkpoint)
	"Штукатурка стен",       // 7 Wall plastering
	"Шпаклёвка (чистовая)",  // 8 Skim coat (checkpoint)
	"Покраска / обои",       // 9 Painting / wallpaper
	"Напольное покрытие",    // 10 Flooring
	"Потолки",               // 11 Ceilings
	"Установка дверей",      // 12 Doors
	"Финальная приёмка",     // 13 Final acceptance (checkpoint)
}

// checkpointOrders holds the 1-based orders that are gating checkpoints.
var checkpointOrders = map[int]bool{3: true, 4: true, 6: true, 8: true, 13: true}

// IsCheckpointOrder reports whether the main stage at this order gates
// progress on owner approval.
func IsCheckpointOrder(order int) bool { return checkpointOrders[order] }

// CustomItemSubStages are the 5 parallel sub-pipeline steps appended per
// selected custom item, in order.
var CustomItemSubStages = []string{"измерение", "договор и предоплата", "производство", "доставка", "установка"}

// Stage is one step of a project's renovation pipeline: a main sequential
// stage (order 1..13) or a parallel furniture sub-pipeline stage (order
// >=100).
type Stage struct {
	ID                 uuid.UUID     `json:"id"`
	ProjectID          uuid.UUID     `json:"project_id"`
	Name               string        `json:"name"`
	Order              int           `json:"order"`
	Status             StageStatus   `json:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	Budget             *float64      `json:"budget,omitempty"`
	StartDate          *time.Time    `json:"start_date,omitempty"`
	EndDate            *time.Time    `json:"end_date,omitempty"`
	ResponsibleUserID  *uuid.UUID    `json:"responsible_user_id,omitempty"`
	ResponsibleContact *string       `json:"responsible_contact,omitempty"`
	IsParallel         bool          `json:"is_parallel"`
	IsCheckpoint       bool          `json:"is_checkpoint"`
	LastActivityAt     time.Time     `json:"last_activity_at"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// SubStage is a checklist item under a Stage; deleted in cascade with it.
type SubStage struct {
	ID                uuid.UUID   `json:"id"`
	StageID           uuid.UUID   `json:"stage_id"`
	Name              string      `json:"name"`
	Order             int         `json:"order"`
	Status            StageStatus `json:"status"`
	StartDate         *time.Time  `json:"start_date,omitempty"`
	EndDate           *time.Time  `json:"end_date,omitempty"`
	ResponsibleUserID *uuid.UUID  `json:"responsible_user_id,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
