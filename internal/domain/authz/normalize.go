package authz

import (
	"strings"

	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

// sanitize lower-cases the input and strips everything outside [a-z_], so
// that variant casing, whitespace and punctuation collapse to one lookup key.
func sanitize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || c == '_' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// NormalizeRole resolves an arbitrary role string to a capability table row.
// Unrecognized roles fall back to the default row; this is never an error.
func NormalizeRole(s string) user.Role {
	role := user.Role(sanitize(s))
	if _, ok := RoleFeatures[role]; ok && role != user.RoleDefault {
		return role
	}
	return user.RoleDefault
}

// NormalizeFeature resolves an arbitrary feature string to a Feature key.
// The result may be absent from every capability row; lookups on it deny.
func NormalizeFeature(s string) Feature {
	return Feature(sanitize(s))
}
