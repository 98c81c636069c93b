package service

import "github.com/mazenibra89-oss/Omni-POS/internal/model"

// Actor identifies who is performing an operation. Handlers build it from
// JWT claims; tests build it directly.
type Actor struct {
	ID   string
	Name string
	Role model.Role
}

// SelfService is the synthetic actor behind customer self-checkout orders.
var SelfService = Actor{ID: "SELF_SERVICE", Name: "Self Service", Role: model.RoleCustomer}
