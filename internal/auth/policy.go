package auth

import "labstock-backend/internal/model"

// Role is the coarse permission level of an authenticated actor.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleLabAdmin Role = "LAB_ADMIN"
	RoleUser     Role = "USER"
)

// Actor is the authenticated identity attached to a request by the
// upstream identity gateway.
type Actor struct {
	ID    int64
	Role  Role
	LabID *int64
}

// CanReassign reports whether the actor may change the assignee of the
// given instance. Global administrators may always reassign; a lab
// administrator only within their own lab.
func CanReassign(actor Actor, inst model.Instance) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleLabAdmin:
		return actor.LabID != nil && *actor.LabID == inst.LabID
	}
	return false
}
