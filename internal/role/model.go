package role

// Role is the caller's resolved role with respect to a property
// (or to the platform as a whole when no property is in scope).
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleHost   Role = "host"
	RoleCoHost Role = "co_host"
	RoleGuest  Role = "guest"
	RoleNone   Role = "none"
)

// Valid reports whether the role is one of the closed set
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleHost, RoleCoHost, RoleGuest, RoleNone:
		return true
	}
	return false
}

// Manages reports whether the role carries operational authority on a
// property (may submit expenses, issue invoices).
func (r Role) Manages() bool {
	return r == RoleOwner || r == RoleHost || r == RoleCoHost
}
