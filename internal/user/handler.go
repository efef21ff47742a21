package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/transport"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, userID int64) (*User, error)
	GetByID(ctx context.Context, userID int64) (*User, error)
	CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*User, int64, error)
	SetActive(ctx context.Context, userID int64, active bool) (*User, error)
	ListRoles(ctx context.Context) ([]*Role, error)
	CreateRole(ctx context.Context, dto CreateRoleDTO) (*Role, error)
	AssignRole(ctx context.Context, userID, roleID int64) (bool, error)
	RemoveRole(ctx context.Context, userID, roleID int64) (bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetProfile(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := h.QueryInt(r, "limit", 20)
	offset := h.QueryInt(r, "offset", 0)

	users, total, err := h.Service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListUsersResponse{Users: users, Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	u, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	u, err := h.Service.CreateUser(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto SetActiveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	u, err := h.Service.SetActive(r.Context(), id, dto.IsActive)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListRolesResponse{Roles: roles})
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	role, err := h.Service.CreateRole(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	h.roleChange(w, r, "assigned", h.Service.AssignRole)
}

func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	h.roleChange(w, r, "removed", h.Service.RemoveRole)
}

func (h *Handler) roleChange(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, int64, int64) (bool, error)) {
	userID, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	roleID, err := h.IDParam(r, "roleID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	changed, err := fn(r.Context(), userID, roleID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RoleChangeResponse{UserID: userID, RoleID: roleID, Changed: changed, Action: action})
}
