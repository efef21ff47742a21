package prescription

import (
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/common/validation"
)

type CreatePrescriptionDTO struct {
	PatientID    int64  `json:"patient_id"`
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

func (d *CreatePrescriptionDTO) Normalize() {
	d.Medication = strings.TrimSpace(d.Medication)
	d.Dosage = strings.TrimSpace(d.Dosage)
	d.Frequency = strings.TrimSpace(d.Frequency)
	d.Duration = strings.TrimSpace(d.Duration)
	d.Instructions = strings.TrimSpace(d.Instructions)
}

func (d CreatePrescriptionDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("patient_id", d.PatientID).Required()
	v.Field("medication", d.Medication).Required().MaxLength(255)
	v.Field("dosage", d.Dosage).Required().MaxLength(100)
	v.Field("frequency", d.Frequency).MaxLength(100)
	v.Field("duration", d.Duration).MaxLength(100)
	v.Field("instructions", d.Instructions).MaxLength(1000)
	return v.Validate()
}

type Filter struct {
	PatientID int64
	Status    Status
	Limit     int
	Offset    int
}

type ListPrescriptionsResponse struct {
	Prescriptions []*Prescription `json:"prescriptions"`
	Total         int64           `json:"total"`
	Limit         int             `json:"limit"`
	Offset        int             `json:"offset"`
}
