package user

import "errors"

// Role mirrors the roles carried in JWT claims. This service performs no
// user management; roles only gate payroll mutation endpoints.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHRManager  Role = "hr_manager"
	RoleAccountant Role = "accountant"
	RoleEmployee   Role = "employee"
)

var ErrHRManagerAccessRequired = errors.New("hr manager access required")
