package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleViewer.Valid())
	assert.False(t, UserRole("SUPERUSER").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestUserInfoOmitsPassword(t *testing.T) {
	u := &User{ID: "u1", Email: "admin@ibacy.ci", FullName: "Admin", Role: RoleAdmin, PasswordHash: "hash"}

	assert.Equal(t, UserInfo{ID: "u1", Email: "admin@ibacy.ci", FullName: "Admin", Role: RoleAdmin}, u.Info())
}
