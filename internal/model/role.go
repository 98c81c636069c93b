package model

// Role is a closed set of user roles. Authorization decisions go through
// the static capability table below, never through ad hoc string checks.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCashier  Role = "CASHIER"
	RoleOwner    Role = "OWNER"
	RoleCustomer Role = "CUSTOMER"
)

// Capabilities enumerates what a role is allowed to do.
type Capabilities struct {
	CanRecordSale     bool
	CanRecordPurchase bool
	CanManageCatalog  bool
	CanApproveOpname  bool
	CanManageUsers    bool
	CanViewReports    bool
}

// RoleCapabilities is the single source of truth for role permissions.
// CASHIER is explicitly denied opname approval.
var RoleCapabilities = map[Role]Capabilities{
	RoleAdmin: {
		CanRecordSale:     true,
		CanRecordPurchase: true,
		CanManageCatalog:  true,
		CanApproveOpname:  true,
		CanManageUsers:    true,
		CanViewReports:    true,
	},
	RoleOwner: {
		CanRecordSale:     true,
		CanRecordPurchase: true,
		CanManageCatalog:  true,
		CanApproveOpname:  true,
		CanManageUsers:    true,
		CanViewReports:    true,
	},
	RoleCashier: {
		CanRecordSale: true,
	},
	RoleCustomer: {},
}

// Capability selects one permission out of a capability set. Route
// definitions pass these to the authorization middleware.
type Capability func(Capabilities) bool

var (
	CapRecordSale     Capability = func(c Capabilities) bool { return c.CanRecordSale }
	CapRecordPurchase Capability = func(c Capabilities) bool { return c.CanRecordPurchase }
	CapManageCatalog  Capability = func(c Capabilities) bool { return c.CanManageCatalog }
	CapApproveOpname  Capability = func(c Capabilities) bool { return c.CanApproveOpname }
	CapManageUsers    Capability = func(c Capabilities) bool { return c.CanManageUsers }
	CapViewReports    Capability = func(c Capabilities) bool { return c.CanViewReports }
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := RoleCapabilities[r]
	return ok
}

// Can returns the capability set for r. Unknown roles get no capabilities.
func (r Role) Can() Capabilities {
	return RoleCapabilities[r]
}
