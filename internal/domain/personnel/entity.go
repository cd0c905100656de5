package personnel

import "time"

type Person struct {
	ID        string
	AccountID string
	FullName  string
	Code      string
	PINHash   string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role string

const (
	RoleField      Role = "field"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

var RoleValues = []string{
	string(RoleField),
	string(RoleSupervisor),
	string(RoleAdmin),
}

// CanSupervise reports whether the role may perform supervisory operations
// such as roster queries and administrative attendance overrides.
func (r Role) CanSupervise() bool {
	return r == RoleSupervisor || r == RoleAdmin
}
