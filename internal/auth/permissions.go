package auth

// Roles recognised by the portal. Role names travel in JWT claims and are
// normalised to lower case on parse.
const (
	RoleLogist  = "logist"
	RoleCarrier = "carrier"
	RoleAdmin   = "admin"
)

// Permission keys gating workflow and catalog mutations.
const (
	PermRfpAssign    = "rfp.assign"
	PermRfpComplete  = "rfp.complete"
	PermRfpCancel    = "rfp.cancel"
	PermCatalogWrite = "catalog.write"
)

// Permission describes a fine-grained capability.
type Permission struct {
	Key         string
	Description string
}

var BuiltinPermissions = []Permission{
	{Key: PermRfpAssign, Description: "Assign a carrier to a shipment RFP"},
	{Key: PermRfpComplete, Description: "Complete an assigned shipment RFP"},
	{Key: PermRfpCancel, Description: "Cancel a non-terminal shipment RFP"},
	{Key: PermCatalogWrite, Description: "Create and update reference catalog items"},
}

// rolePermissions maps each role to the permissions it implies. Admin is
// handled separately: it bypasses permission checks entirely.
var rolePermissions = map[string][]string{
	RoleLogist:  {PermRfpAssign, PermRfpCancel, PermCatalogWrite},
	RoleCarrier: {PermRfpComplete},
}

// PermissionsForRoles expands role names into the implied permission set.
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, role := range roles {
		for _, key := range rolePermissions[role] {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}
