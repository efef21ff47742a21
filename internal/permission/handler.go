package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListCatalog(ctx context.Context) ([]Definition, error)
	Grant(ctx context.Context, subject Subject, subjectID int64, name string, actorID int64) (bool, error)
	Revoke(ctx context.Context, subject Subject, subjectID int64, name string, actorID int64) (bool, error)
	ListGrants(ctx context.Context, subject Subject, subjectID int64) (Set, error)
}

type ResolverAPI interface {
	GetUserPermissions(ctx context.Context, userID int64) (Set, error)
	Explain(ctx context.Context, userID int64) (*Resolution, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Resolver ResolverAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, resolver ResolverAPI) *Handler {
	return &Handler{BaseHandler: base, Service: service, Resolver: resolver}
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	defs, err := h.Service.ListCatalog(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CatalogResponse{Permissions: defs})
}

// GetMyPermissions serves the caller's effective permission names.
func (h *Handler) GetMyPermissions(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	set, err := h.Resolver.GetUserPermissions(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{UserID: userID, Permissions: set.Names()})
}

// GetUserResolution shows an administrator where each of a user's
// permissions comes from.
func (h *Handler) GetUserResolution(w http.ResponseWriter, r *http.Request) {
	userID, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	res, err := h.Resolver.Explain(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res.ToResponse(userID))
}

// ListGrants serves the direct grants of one subject kind.
func (h *Handler) ListGrants(subject Subject) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.IDParam(r, "id")
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		set, err := h.Service.ListGrants(r.Context(), subject, id)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, GrantsResponse{Subject: subject, SubjectID: id, Permissions: set.Names()})
	}
}

func (h *Handler) Grant(subject Subject) http.HandlerFunc {
	return h.change(subject, h.Service.Grant)
}

func (h *Handler) Revoke(subject Subject) http.HandlerFunc {
	return h.change(subject, h.Service.Revoke)
}

type changeFunc func(ctx context.Context, subject Subject, subjectID int64, name string, actorID int64) (bool, error)

func (h *Handler) change(subject Subject, fn changeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.IDParam(r, "id")
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		name := chi.URLParam(r, "name")
		actor := internal.UserIDFromContext(r.Context())

		changed, err := fn(r.Context(), subject, id, name, actor)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, ChangeResponse{
			Subject:    subject,
			SubjectID:  id,
			Permission: name,
			Changed:    changed,
		})
	}
}
