package auth

// Role of an authenticated caller.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleStaff     Role = "staff"
)

// Identity is the authenticated caller, produced at the edge and passed
// explicitly into every core operation.
type Identity struct {
	Subject string
	Role    Role
}

// IsStaff reports whether the caller may review and decide on loans.
func (i Identity) IsStaff() bool { return i.Role == RoleStaff }

// Valid reports whether the identity carries a subject and a known role.
func (i Identity) Valid() bool {
	if i.Subject == "" {
		return false
	}
	switch i.Role {
	case RoleApplicant, RoleStaff:
		return true
	}
	return false
}
