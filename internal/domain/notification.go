package domain

import "github.com/google/uuid"

// NotificationType enumerates every event the scheduler and domain services
// can emit.
type NotificationType string

const (
	NotifyDeadlineApproaching    NotificationType = "deadline_approaching"
	NotifyDeadlineOverdue        NotificationType = "deadline_overdue"
	NotifyStageStartingSoon      NotificationType = "stage_starting_soon"
	NotifyStatusUpdateRequest    NotificationType = "status_update_request"
	NotifyCheckpointReached      NotificationType = "checkpoint_reached"
	NotifyCheckpointApproved     NotificationType = "checkpoint_approved"
	NotifyCheckpointRejected     NotificationType = "checkpoint_rejected"
	NotifyFurnitureOrderReminder NotificationType = "furniture_order_reminder"
	NotifyOverspendingAlert      NotificationType = "overspending_alert"
	NotifyBudgetWarning          NotificationType = "budget_warning"
	NotifyWeeklyReport           NotificationType = "weekly_report"
)

// recipientPolicy maps each notification type to the roles that should
// receive it.
var recipientPolicy = map[NotificationType][]Role{
	NotifyDeadlineApproaching:    {RoleOwner, RoleCoOwner, RoleForeman},
	NotifyDeadlineOverdue:        {RoleOwner, RoleCoOwner, RoleForeman},
	NotifyStageStartingSoon:      {RoleOwner, RoleCoOwner, RoleForeman},
	NotifyStatusUpdateRequest:    {RoleOwner, RoleCoOwner, RoleForeman},
	NotifyCheckpointReached:      {RoleOwner},
	NotifyCheckpointApproved:     {RoleOwner, RoleCoOwner, RoleForeman},
	NotifyCheckpointRejected:     {RoleOwner, RoleCoOwner, RoleForeman},
	NotifyFurnitureOrderReminder: {RoleOwner, RoleCoOwner},
	NotifyOverspendingAlert:      {RoleOwner, RoleCoOwner},
	NotifyBudgetWarning:          {RoleOwner, RoleCoOwner},
	NotifyWeeklyReport:           {RoleOwner, RoleCoOwner},
}

// RecipientRoles returns the roles that should receive notifications of
// this type.
func RecipientRoles(t NotificationType) []Role { return recipientPolicy[t] }

// Notification is a pure value; delivery through a concrete adapter is the
// caller's responsibility.
type Notification struct {
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	ProjectID    uuid.UUID        `json:"project_id"`
	RecipientIDs []uuid.UUID      `json:"recipient_ids"`
	StageID      *uuid.UUID       `json:"stage_id,omitempty"`
	Extras       map[string]any   `json:"extras,omitempty"`
}
