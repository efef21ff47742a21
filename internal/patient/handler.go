package patient

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto CreatePatientDTO, createdBy int64) (*Patient, error)
	Get(ctx context.Context, id int64) (*Patient, error)
	GetByRecordNumber(ctx context.Context, recordNumber string) (*Patient, error)
	List(ctx context.Context, includeArchived bool, limit, offset int) ([]*Patient, int64, error)
	Update(ctx context.Context, id int64, dto UpdatePatientDTO) (*Patient, error)
	Archive(ctx context.Context, id int64) (*Patient, error)
	Restore(ctx context.Context, id int64) (*Patient, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto CreatePatientDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Register(r.Context(), dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// List handles GET /patients. ?record_number= looks up a single record.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if rn := r.URL.Query().Get("record_number"); rn != "" {
		p, err := h.Service.GetByRecordNumber(r.Context(), rn)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, ListPatientsResponse{Patients: []*Patient{p}, Total: 1, Limit: 1})
		return
	}

	limit := h.QueryInt(r, "limit", 20)
	offset := h.QueryInt(r, "offset", 0)
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	patients, total, err := h.Service.List(r.Context(), includeArchived, limit, offset)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListPatientsResponse{Patients: patients, Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "patientID")
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

func (h *Handler) GetByRecordNumber(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetByRecordNumber(r.Context(), chi.URLParam(r, "recordNumber"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto UpdatePatientDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// Archive handles DELETE /patients/{patientID}.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Archive(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	p, err := h.Service.Restore(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}
