package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/auth"
	"github.com/frahmantamala/clinic-management/internal/transport"
	"github.com/frahmantamala/clinic-management/pkg/logger"
)

type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, accessToken string) (*auth.Principal, error)
}

// Authenticate resolves the bearer token into a Principal and stores it,
// plus the user id for logging, on the request context.
func Authenticate(loader PrincipalLoader, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := base.ExtractTokenFromHeader(r)
			if token == "" {
				base.WriteAppError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
				return
			}

			principal, err := loader.LoadPrincipal(r.Context(), token)
			if err != nil {
				base.HandleServiceError(w, r, err)
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			ctx = internal.ContextWithUserID(ctx, principal.UserID)
			ctx = logger.With(ctx, "user_id", principal.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
