package appointment

import (
	"time"

	appointmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/appointment"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// transitions lists the statuses reachable from each status. Only a
// scheduled appointment can move.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patient_id"`
	StaffID     *int64    `json:"staff_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToDataModel(a *Appointment) *appointmentDatamodel.Appointment {
	return &appointmentDatamodel.Appointment{
		ID:          a.ID,
		PatientID:   a.PatientID,
		StaffID:     a.StaffID,
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Status:      string(a.Status),
		Notes:       a.Notes,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModel(a *appointmentDatamodel.Appointment) *Appointment {
	return &Appointment{
		ID:          a.ID,
		PatientID:   a.PatientID,
		StaffID:     a.StaffID,
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Status:      Status(a.Status),
		Notes:       a.Notes,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
