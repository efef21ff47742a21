package prescription

import (
	"time"

	prescriptionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/prescription"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusDispensed Status = "dispensed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDispensed || s == StatusCancelled
}

// Only an active prescription can be dispensed or cancelled.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusActive && (next == StatusDispensed || next == StatusCancelled)
}

type Prescription struct {
	ID           int64      `json:"id"`
	PatientID    int64      `json:"patient_id"`
	PrescribedBy int64      `json:"prescribed_by"`
	Medication   string     `json:"medication"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Status       Status     `json:"status"`
	DispensedBy  *int64     `json:"dispensed_by,omitempty"`
	DispensedAt  *time.Time `json:"dispensed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ToDataModel(p *Prescription) *prescriptionDatamodel.Prescription {
	return &prescriptionDatamodel.Prescription{
		ID:           p.ID,
		PatientID:    p.PatientID,
		PrescribedBy: p.PrescribedBy,
		Medication:   p.Medication,
		Dosage:       p.Dosage,
		Frequency:    p.Frequency,
		Duration:     p.Duration,
		Instructions: p.Instructions,
		Status:       string(p.Status),
		DispensedBy:  p.DispensedBy,
		DispensedAt:  p.DispensedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func FromDataModel(p *prescriptionDatamodel.Prescription) *Prescription {
	return &Prescription{
		ID:           p.ID,
		PatientID:    p.PatientID,
		PrescribedBy: p.PrescribedBy,
		Medication:   p.Medication,
		Dosage:       p.Dosage,
		Frequency:    p.Frequency,
		Duration:     p.Duration,
		Instructions: p.Instructions,
		Status:       Status(p.Status),
		DispensedBy:  p.DispensedBy,
		DispensedAt:  p.DispensedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
