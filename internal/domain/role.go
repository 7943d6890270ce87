package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a project-scoped permission grant held by a User.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleCoOwner      Role = "co_owner"
	RoleForeman      Role = "foreman"
	RoleTradesperson Role = "tradesperson"
	RoleDesigner     Role = "designer"
	RoleSupplier     Role = "supplier"
	RoleExpert       Role = "expert"
	RoleViewer       Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleCoOwner, RoleForeman, RoleTradesperson, RoleDesigner, RoleSupplier, RoleExpert, RoleViewer:
		return true
	default:
		return false
	}
}

// AssignableRoles excludes owner: ownership is never granted via invitation.
var AssignableRoles = []Role{RoleCoOwner, RoleForeman, RoleTradesperson, RoleDesigner, RoleSupplier, RoleExpert, RoleViewer}

// ProjectRole is the (project, user, role) membership row. A user may hold
// several roles on the same project simultaneously.
type ProjectRole struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Permission is an action gated by the role/permission service.
type Permission string

const (
	PermEditProject       Permission = "edit_project"
	PermDeleteProject     Permission = "delete_project"
	PermManageStages      Permission = "manage_stages"
	PermApproveCheckpoint Permission = "approve_checkpoint"
	PermManageBudget      Permission = "manage_budget"
	PermConfirmBudget     Permission = "confirm_budget"
	PermInviteMembers     Permission = "invite_members"
	PermRemoveMembers     Permission = "remove_members"
	PermViewReports       Permission = "view_reports"
	PermUseAIChat         Permission = "use_ai_chat"
)

// PermissionRoles maps each permission to the set of roles that hold it.
// A user's permissions are the union across every role they hold.
var PermissionRoles = map[Permission]map[Role]bool{
	PermEditProject:       {RoleOwner: true, RoleCoOwner: true},
	PermDeleteProject:     {RoleOwner: true},
	PermManageStages:      {RoleOwner: true, RoleCoOwner: true, RoleForeman: true},
	PermApproveCheckpoint: {RoleOwner: true},
	PermManageBudget:      {RoleOwner: true, RoleCoOwner: true, RoleForeman: true},
	PermConfirmBudget:     {RoleOwner: true, RoleCoOwner: true},
	PermInviteMembers:     {RoleOwner: true, RoleCoOwner: true},
	PermRemoveMembers:     {RoleOwner: true, RoleCoOwner: true},
	PermViewReports:       {RoleOwner: true, RoleCoOwner: true, RoleForeman: true, RoleDesigner: true, RoleExpert: true, RoleViewer: true, RoleTradesperson: true, RoleSupplier: true},
	PermUseAIChat:         {RoleOwner: true, RoleCoOwner: true, RoleForeman: true, RoleDesigner: true, RoleExpert: true, RoleViewer: true, RoleTradesperson: true, RoleSupplier: true},
}

// HasPermission reports whether any of roles grants perm.
func HasPermission(roles []Role, perm Permission) bool {
	allowed := PermissionRoles[perm]
	for _, r := range roles {
		if allowed[r] {
			return true
		}
	}
	return false
}
