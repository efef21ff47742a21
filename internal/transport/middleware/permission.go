package middleware

import (
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/auth"
	"github.com/frahmantamala/clinic-management/internal/permission"
	"github.com/frahmantamala/clinic-management/internal/transport"
	"github.com/frahmantamala/clinic-management/pkg/logger"
)

// RequirePermission lets the request through when the caller holds any of
// the listed permissions, the same rule the navigation menu applies.
func RequirePermission(base *transport.BaseHandler, required ...permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				base.WriteAppError(w, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeInvalidToken))
				return
			}

			if !p.Can(required...) {
				logger.From(r.Context()).Warn("access denied: missing permission",
					"user_id", p.UserID,
					"required_any", required,
					"path", r.URL.Path)
				base.WriteAppError(w, internal.ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
