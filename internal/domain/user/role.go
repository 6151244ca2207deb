package user

import "errors"

var (
	ErrAdminAccessRequired   = errors.New("administrator access required")
	ErrManagerAccessRequired = errors.New("manager access required")
)

// Role is a closed set. Keeping it an integer enum (instead of comparing raw
// claim strings at call sites) forces every consumer through ParseRole and an
// exhaustive switch, so an unknown role can never pass an access check.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleManager
	RoleStaff
)

// ParseRole maps the role claim string to a Role. Unrecognized values map to
// RoleUnknown, which holds no permissions.
func ParseRole(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	case "manager":
		return RoleManager
	case "staff":
		return RoleStaff
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleStaff:
		return "staff"
	case RoleUnknown:
		return "unknown"
	}
	return "unknown"
}

// CanManageLifecycle reports whether the role may create, finalize, or unlock
// attendance periods and run payroll.
func (r Role) CanManageLifecycle() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleManager, RoleStaff, RoleUnknown:
		return false
	}
	return false
}

// CanViewReports reports whether the role may read aggregate reports and the
// audit trail.
func (r Role) CanViewReports() bool {
	switch r {
	case RoleAdmin, RoleManager:
		return true
	case RoleStaff, RoleUnknown:
		return false
	}
	return false
}
