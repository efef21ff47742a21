package prescription

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreatePrescriptionDTO, prescribedBy int64) (*Prescription, error)
	Get(ctx context.Context, id int64) (*Prescription, error)
	List(ctx context.Context, f Filter) ([]*Prescription, int64, error)
	Dispense(ctx context.Context, id, dispensedBy int64) (*Prescription, error)
	Cancel(ctx context.Context, id int64) (*Prescription, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreatePrescriptionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Create(r.Context(), dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// List handles GET /prescriptions?patient_id=&status=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		PatientID: int64(h.QueryInt(r, "patient_id", 0)),
		Status:    Status(r.URL.Query().Get("status")),
		Limit:     h.QueryInt(r, "limit", 20),
		Offset:    h.QueryInt(r, "offset", 0),
	}
	list, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListPrescriptionsResponse{Prescriptions: list, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Dispense(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Dispense(r.Context(), id, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Cancel(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}
