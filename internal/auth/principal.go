package auth

// Principal represents an authenticated user with resolved roles and
// permissions. Organization identifies the carrier or logistics company the
// user acts for.
type Principal struct {
	UserID         string
	OrganizationID string
	Roles          []string
	Permissions    map[string]struct{}
}

// NewPrincipal constructs a principal, expanding roles into permissions.
func NewPrincipal(userID, organizationID string, roles []string) Principal {
	roles = dedupeRoles(roles)
	perms := PermissionsForRoles(roles)
	set := make(map[string]struct{}, len(perms))
	for _, key := range perms {
		set[key] = struct{}{}
	}
	return Principal{
		UserID:         userID,
		OrganizationID: organizationID,
		Roles:          roles,
		Permissions:    set,
	}
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal bypasses permission gates.
func (p Principal) IsAdmin() bool { return p.HasRole(RoleAdmin) }

// HasPermission reports whether the principal can execute the action
// identified by key. Admins implicitly hold every permission.
func (p Principal) HasPermission(key string) bool {
	if p.IsAdmin() {
		return true
	}
	_, ok := p.Permissions[key]
	return ok
}
