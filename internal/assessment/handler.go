package assessment

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/transport"
)

type ServiceAPI interface {
	RecordNCD(ctx context.Context, patientID int64, dto RecordNCDDTO, assessedBy int64) (*NCDAssessment, error)
	GetNCD(ctx context.Context, id int64) (*NCDAssessment, error)
	ListNCD(ctx context.Context, patientID int64) ([]*NCDAssessment, error)
	RecordHEEADSSS(ctx context.Context, patientID int64, dto RecordHEEADSSSDTO, assessedBy int64) (*HEEADSSSAssessment, error)
	GetHEEADSSS(ctx context.Context, id int64) (*HEEADSSSAssessment, error)
	ListHEEADSSS(ctx context.Context, patientID int64) ([]*HEEADSSSAssessment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) RecordNCD(w http.ResponseWriter, r *http.Request) {
	patientID, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto RecordNCDDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	a, err := h.Service.RecordNCD(r.Context(), patientID, dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) ListNCD(w http.ResponseWriter, r *http.Request) {
	patientID, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	list, err := h.Service.ListNCD(r.Context(), patientID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListNCDResponse{Assessments: list})
}

func (h *Handler) GetNCD(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	a, err := h.Service.GetNCD(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) RecordHEEADSSS(w http.ResponseWriter, r *http.Request) {
	patientID, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto RecordHEEADSSSDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	a, err := h.Service.RecordHEEADSSS(r.Context(), patientID, dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) ListHEEADSSS(w http.ResponseWriter, r *http.Request) {
	patientID, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	list, err := h.Service.ListHEEADSSS(r.Context(), patientID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListHEEADSSSResponse{Assessments: list})
}

func (h *Handler) GetHEEADSSS(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	a, err := h.Service.GetHEEADSSS(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}
