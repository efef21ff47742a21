package navigation

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/auth"
	"github.com/frahmantamala/clinic-management/internal/transport"
)

type MenuResponse struct {
	Role  string  `json:"role"`
	Items []Entry `json:"items"`
}

type Handler struct {
	*transport.BaseHandler
	Registry *Registry
}

func NewHandler(base *transport.BaseHandler, registry *Registry) *Handler {
	return &Handler{BaseHandler: base, Registry: registry}
}

// GetMenu serves GET /navigation?role=. Without a role the caller's primary
// role is used; asking for a role the caller does not hold is refused.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	role := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("role")))
	if role == "" {
		role = p.PrimaryRole()
	} else if !p.HasRole(role) {
		h.WriteAppError(w, internal.ErrRoleNotAssigned)
		return
	}
	if role == "" {
		role = DefaultRole
	}

	h.WriteJSON(w, http.StatusOK, MenuResponse{
		Role:  role,
		Items: h.Registry.Build(role, p.Permissions),
	})
}
