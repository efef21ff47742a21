package appointment

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/transport"
)

type ServiceAPI interface {
	Schedule(ctx context.Context, dto CreateAppointmentDTO, createdBy int64) (*Appointment, error)
	Get(ctx context.Context, id int64) (*Appointment, error)
	List(ctx context.Context, f Filter) ([]*Appointment, int64, error)
	Reschedule(ctx context.Context, id int64, at time.Time) (*Appointment, error)
	Complete(ctx context.Context, id int64, notes string) (*Appointment, error)
	Cancel(ctx context.Context, id int64, notes string) (*Appointment, error)
	MarkNoShow(ctx context.Context, id int64, notes string) (*Appointment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var dto CreateAppointmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	a, err := h.Service.Schedule(r.Context(), dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

// List handles GET /appointments?status=&patient_id=&staff_id=&from=&to=
// with RFC 3339 or YYYY-MM-DD dates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Status:    Status(q.Get("status")),
		PatientID: int64(h.QueryInt(r, "patient_id", 0)),
		StaffID:   int64(h.QueryInt(r, "staff_id", 0)),
		Limit:     h.QueryInt(r, "limit", 20),
		Offset:    h.QueryInt(r, "offset", 0),
	}
	var err error
	if f.From, err = parseTime("from", q.Get("from")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if f.To, err = parseTime("to", q.Get("to")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	list, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListAppointmentsResponse{Appointments: list, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func parseTime(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, internal.NewValidationFieldError(field, field+" must be RFC 3339 or YYYY-MM-DD", internal.ErrCodeInvalidDate)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto RescheduleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	a, err := h.Service.Reschedule(r.Context(), id, dto.ScheduledAt)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Complete)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Cancel)
}

func (h *Handler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.MarkNoShow)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, string) (*Appointment, error)) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto StatusChangeDTO
	if r.ContentLength > 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
	}
	a, err := fn(r.Context(), id, dto.Notes)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}
