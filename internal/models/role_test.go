package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleNormalize(t *testing.T) {
	assert.Equal(t, RoleDealer, RolePrivateHost.Normalize())
	assert.Equal(t, RoleRenter, RoleRenter.Normalize())
	assert.Equal(t, RoleDealer, RoleDealer.Normalize())
	assert.Equal(t, RoleAdmin, RoleAdmin.Normalize())
	assert.Equal(t, RolePrimeAdmin, RolePrimeAdmin.Normalize())
	assert.Equal(t, RoleSuperAdmin, RoleSuperAdmin.Normalize())
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range []Role{RoleRenter, RoleDealer, RolePrivateHost, RoleAdmin, RolePrimeAdmin, RoleSuperAdmin} {
		assert.True(t, role.IsValid(), "%s should be valid", role)
	}
	assert.False(t, Role("driver").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RolePrimeAdmin))
	assert.True(t, RolePrimeAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleRenter))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))

	// Renter and dealer share the lowest rank.
	assert.True(t, RoleRenter.AtLeast(RoleDealer))
	assert.True(t, RoleDealer.AtLeast(RoleRenter))
	assert.True(t, RolePrivateHost.AtLeast(RoleRenter))

	assert.False(t, RoleAdmin.AtLeast(RolePrimeAdmin))
	assert.False(t, RolePrimeAdmin.AtLeast(RoleSuperAdmin))
	assert.False(t, RoleRenter.AtLeast(RoleAdmin))
	assert.False(t, Role("driver").AtLeast(RoleRenter))
}

func TestRoleAdminTiers(t *testing.T) {
	assert.False(t, RoleRenter.IsAdminTier())
	assert.False(t, RoleDealer.IsAdminTier())
	assert.False(t, RolePrivateHost.IsAdminTier())
	assert.True(t, RoleAdmin.IsAdminTier())
	assert.True(t, RolePrimeAdmin.IsAdminTier())
	assert.True(t, RoleSuperAdmin.IsAdminTier())

	// Overrides start one tier up.
	assert.False(t, RoleAdmin.CanOverride())
	assert.True(t, RolePrimeAdmin.CanOverride())
	assert.True(t, RoleSuperAdmin.CanOverride())
	assert.False(t, RoleDealer.CanOverride())
}

func TestRoleIsParty(t *testing.T) {
	assert.True(t, RoleRenter.IsParty())
	assert.True(t, RoleDealer.IsParty())
	assert.True(t, RolePrivateHost.IsParty())
	assert.False(t, RoleAdmin.IsParty())
	assert.False(t, RoleSuperAdmin.IsParty())
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RolePrivateHost.In(RoleDealer))
	assert.True(t, RoleRenter.In(RoleRenter, RoleDealer))
	assert.False(t, RoleAdmin.In(RoleRenter, RoleDealer))
}
