package authz

// PermissionCheck is the outcome of a single capability query
type PermissionCheck struct {
	Feature     string `json:"feature"`
	Allowed     bool   `json:"allowed"`
	Description string `json:"description"`
}

// ResolvedPermissions summarizes everything a role may and may not use
type ResolvedPermissions struct {
	Role        string   `json:"role"`
	AccessLevel int      `json:"access_level"`
	Accessible  []string `json:"accessible"`
	Restricted  []string `json:"restricted"`
}

// HasPermission answers whether a role may use a feature. Pure function of
// the capability table; unrecognized input resolves to a deny, never an error.
func HasPermission(role, feature string) bool {
	row, ok := RoleFeatures[NormalizeRole(role)]
	if !ok {
		return false
	}
	return row[NormalizeFeature(feature)]
}

// CheckPermission answers a capability query with the feature description
func CheckPermission(role, feature string) PermissionCheck {
	f := NormalizeFeature(feature)
	return PermissionCheck{
		Feature:     string(f),
		Allowed:     HasPermission(role, feature),
		Description: FeatureDescriptions[f],
	}
}

// BulkCheck answers capability queries for several features at once
func BulkCheck(role string, features []string) []PermissionCheck {
	checks := make([]PermissionCheck, len(features))
	for i, feature := range features {
		checks[i] = CheckPermission(role, feature)
	}
	return checks
}

// Resolve lists the accessible and restricted features for a role, in the
// fixed feature order so repeated calls are deterministic.
func Resolve(role string) ResolvedPermissions {
	normalized := NormalizeRole(role)
	row := RoleFeatures[normalized]

	resolved := ResolvedPermissions{
		Role:        string(normalized),
		AccessLevel: AccessLevel(normalized),
		Accessible:  []string{},
		Restricted:  []string{},
	}
	for _, f := range allFeatures {
		if row[f] {
			resolved.Accessible = append(resolved.Accessible, string(f))
		} else {
			resolved.Restricted = append(resolved.Restricted, string(f))
		}
	}
	return resolved
}
