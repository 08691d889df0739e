package authz

import (
	"net/http"

	"github.com/loopcrm/loopcrm-api/internal/middleware"
	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
)

// RequireFeature returns middleware that denies requests from roles without
// the named feature. Missing or unrecognized roles fall through to the
// default row, so an unauthenticated or malformed caller is denied everything
// but never crashes the gate.
func RequireFeature(feature Feature) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := middleware.GetRole(r.Context())
			if !HasPermission(role, string(feature)) {
				response.Forbidden(w, "Your role does not grant access to "+string(feature))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
