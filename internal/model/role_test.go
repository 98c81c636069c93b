package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleCashier, RoleOwner, RoleCustomer} {
		assert.True(t, r.Valid(), "role %s should be valid", r)
	}
	assert.False(t, Role("SUPERVISOR").Valid())
	assert.False(t, Role("").Valid())
}

func TestCashierCapabilities(t *testing.T) {
	can := RoleCashier.Can()
	assert.True(t, can.CanRecordSale)
	assert.False(t, can.CanRecordPurchase)
	assert.False(t, can.CanManageCatalog)
	assert.False(t, can.CanApproveOpname)
	assert.False(t, can.CanManageUsers)
	assert.False(t, can.CanViewReports)
}

func TestManagerRolesHaveFullCapabilities(t *testing.T) {
	full := Capabilities{
		CanRecordSale:     true,
		CanRecordPurchase: true,
		CanManageCatalog:  true,
		CanApproveOpname:  true,
		CanManageUsers:    true,
		CanViewReports:    true,
	}
	assert.Equal(t, full, RoleAdmin.Can())
	assert.Equal(t, full, RoleOwner.Can())
}

func TestUnknownRoleGetsNothing(t *testing.T) {
	assert.Equal(t, Capabilities{}, Role("GUEST").Can())
	assert.False(t, CapApproveOpname(Role("GUEST").Can()))
}

func TestCapabilitySelectors(t *testing.T) {
	admin := RoleAdmin.Can()
	cashier := RoleCashier.Can()

	assert.True(t, CapRecordSale(cashier))
	assert.False(t, CapApproveOpname(cashier))
	assert.True(t, CapApproveOpname(admin))
	assert.True(t, CapManageUsers(admin))
	assert.False(t, CapManageCatalog(RoleCustomer.Can()))
}
