package appointment

import (
	"strings"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/common/validation"
)

type CreateAppointmentDTO struct {
	PatientID   int64     `json:"patient_id"`
	StaffID     *int64    `json:"staff_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Notes       string    `json:"notes"`
}

func (d *CreateAppointmentDTO) Normalize() {
	d.Reason = strings.TrimSpace(d.Reason)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d CreateAppointmentDTO) Validate(now time.Time) *internal.AppError {
	v := validation.NewValidator()
	v.Field("patient_id", d.PatientID).Required()
	v.Field("scheduled_at", d.ScheduledAt).Required().NotPast(now)
	v.Field("reason", d.Reason).Required().MaxLength(255)
	v.Field("notes", d.Notes).MaxLength(1000)
	return v.Validate()
}

type RescheduleDTO struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

type StatusChangeDTO struct {
	Notes string `json:"notes"`
}

// Filter narrows List. Zero values mean no constraint.
type Filter struct {
	Status    Status
	PatientID int64
	StaffID   int64
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Total        int64          `json:"total"`
	Limit        int            `json:"limit"`
	Offset       int            `json:"offset"`
}
