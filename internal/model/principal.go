package model

import "github.com/google/uuid"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStylist  Role = "stylist"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Principal is the verified caller identity supplied by the auth layer.
// SalonID is only set for salon-scoped roles (manager).
type Principal struct {
	UserID  uuid.UUID
	Role    Role
	SalonID uuid.UUID
}
