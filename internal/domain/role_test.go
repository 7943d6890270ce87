package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission_UnionAcrossRoles(t *testing.T) {
	assert.False(t, HasPermission([]Role{RoleViewer}, PermApproveCheckpoint))
	assert.True(t, HasPermission([]Role{RoleViewer, RoleOwner}, PermApproveCheckpoint))
	assert.True(t, HasPermission([]Role{RoleForeman}, PermManageStages))
}

func TestAssignableRoles_ExcludesOwner(t *testing.T) {
	for _, r := range AssignableRoles {
		assert.NotEqual(t, RoleOwner, r)
	}
}
