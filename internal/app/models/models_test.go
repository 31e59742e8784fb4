package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	for _, role := range []RoleType{RoleStudent, RoleTeacher, RoleAdmin, RoleClubHead} {
		assert.True(t, ValidRole(role), string(role))
	}
	assert.False(t, ValidRole("MODERATOR"))
	assert.False(t, ValidRole(""))
}

func TestRolePermissions(t *testing.T) {
	assert.False(t, RoleStudent.CanManageCampusContent())
	assert.True(t, RoleTeacher.CanManageCampusContent())
	assert.True(t, RoleAdmin.CanManageCampusContent())
	assert.True(t, RoleClubHead.CanManageCampusContent())

	assert.False(t, RoleStudent.CanPublishNotices())
	assert.False(t, RoleClubHead.CanPublishNotices())
	assert.True(t, RoleTeacher.CanPublishNotices())
	assert.True(t, RoleAdmin.CanPublishNotices())
}
