package staff

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal/transport"
)

type ServiceAPI interface {
	ListPositions(ctx context.Context) ([]*Position, error)
	CreatePosition(ctx context.Context, dto CreatePositionDTO) (*Position, error)
	List(ctx context.Context, activeOnly bool) ([]*Staff, error)
	Get(ctx context.Context, id int64) (*Staff, error)
	Create(ctx context.Context, dto CreateStaffDTO) (*Staff, error)
	AssignPosition(ctx context.Context, staffID, positionID int64) (*Staff, error)
	LinkAccount(ctx context.Context, staffID, userID int64) (*Staff, error)
	SetActive(ctx context.Context, staffID int64, active bool) (*Staff, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.Service.ListPositions(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListPositionsResponse{Positions: positions})
}

func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var dto CreatePositionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.CreatePosition(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// List handles GET /staff; ?all=true includes inactive records.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	staff, err := h.Service.List(r.Context(), activeOnly)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListStaffResponse{Staff: staff})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	s, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateStaffDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	s, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) AssignPosition(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto AssignPositionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	s, err := h.Service.AssignPosition(r.Context(), id, dto.PositionID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) LinkAccount(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto LinkAccountDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	s, err := h.Service.LinkAccount(r.Context(), id, dto.UserID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
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
	s, err := h.Service.SetActive(r.Context(), id, dto.IsActive)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}
