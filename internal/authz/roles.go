package authz

// Role codes carried in JWT claims.
const (
	RoleAdvisor    = 10
	RoleSupervisor = 20
	RoleAudit      = 30
	RoleManagement = 40
	RoleAdmin      = 50
)

// ValidRole reports whether the code is one of the known roles.
func ValidRole(roleID int) bool {
	switch roleID {
	case RoleAdvisor, RoleSupervisor, RoleAudit, RoleManagement, RoleAdmin:
		return true
	}
	return false
}

// IsElevated reports whether the role sees the whole pipeline rather
// than a personal or team slice.
func IsElevated(roleID int) bool {
	return roleID == RoleManagement || roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleAudit
}

// Scope is the resolved visibility of a caller: which advisors' records
// they may see. It is computed outside the pipeline core and passed in.
type Scope struct {
	ActorID    int64
	RoleID     int
	AdvisorIDs []int64 // empty means unrestricted
}

// Unrestricted reports whether the scope covers every advisor.
func (s Scope) Unrestricted() bool {
	return IsElevated(s.RoleID) || s.RoleID == RoleAudit
}

// CanSee reports whether a record owned by advisorID is visible.
func (s Scope) CanSee(advisorID *int64) bool {
	if s.Unrestricted() {
		return true
	}
	if advisorID == nil {
		return false
	}
	if *advisorID == s.ActorID {
		return true
	}
	for _, id := range s.AdvisorIDs {
		if id == *advisorID {
			return true
		}
	}
	return false
}
