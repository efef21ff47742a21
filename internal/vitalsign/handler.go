package vitalsign

import (
	"context"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/transport"
)

type ServiceAPI interface {
	Record(ctx context.Context, patientID int64, dto RecordVitalSignDTO, recordedBy int64) (*VitalSign, error)
	Get(ctx context.Context, id int64) (*VitalSign, error)
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]*VitalSign, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	patientID, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto RecordVitalSignDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	v, err := h.Service.Record(r.Context(), patientID, dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, v.ToResponse())
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := h.IDParam(r, "patientID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	list, err := h.Service.ListByPatient(r.Context(), patientID, h.QueryInt(r, "limit", 20))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	resp := ListVitalSignsResponse{PatientID: patientID, VitalSigns: make([]VitalSignResponse, 0, len(list))}
	for _, v := range list {
		resp.VitalSigns = append(resp.VitalSigns, v.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	v, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v.ToResponse())
}
