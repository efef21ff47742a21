package vitalsign

import (
	"strings"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/common/validation"
)

type RecordVitalSignDTO struct {
	BloodPressure   string     `json:"blood_pressure"`
	Temperature     float64    `json:"temperature_c"`
	PulseRate       int        `json:"pulse_rate"`
	RespiratoryRate int        `json:"respiratory_rate"`
	WeightKg        float64    `json:"weight_kg"`
	HeightCm        float64    `json:"height_cm"`
	Notes           string     `json:"notes"`
	RecordedAt      *time.Time `json:"recorded_at,omitempty"`
}

// Validate checks ranges and returns the parsed blood pressure.
func (d RecordVitalSignDTO) Validate() (systolic, diastolic int, appErr *internal.AppError) {
	systolic, diastolic, bpErr := ParseBloodPressure(d.BloodPressure)

	v := validation.NewValidator()
	v.Field("blood_pressure", d.BloodPressure).Custom(func(interface{}) *internal.AppError {
		if bpErr != nil {
			return internal.NewValidationFieldError("blood_pressure", "blood_pressure must look like 120/80", internal.ErrCodeInvalidMeasure)
		}
		if systolic == 0 && diastolic == 0 {
			return nil
		}
		if systolic < 50 || systolic > 300 || diastolic < 30 || diastolic > 200 || diastolic >= systolic {
			return internal.NewValidationFieldError("blood_pressure", "blood_pressure is out of range", internal.ErrCodeInvalidMeasure)
		}
		return nil
	})
	v.Field("temperature_c", d.Temperature).Range(30, 45, internal.ErrCodeInvalidMeasure)
	v.Field("pulse_rate", d.PulseRate).MinInt(0, internal.ErrCodeInvalidMeasure).MaxInt(250, internal.ErrCodeInvalidMeasure)
	v.Field("respiratory_rate", d.RespiratoryRate).MinInt(0, internal.ErrCodeInvalidMeasure).MaxInt(80, internal.ErrCodeInvalidMeasure)
	v.Field("weight_kg", d.WeightKg).Range(0.5, 500, internal.ErrCodeInvalidMeasure)
	v.Field("height_cm", d.HeightCm).Range(20, 250, internal.ErrCodeInvalidMeasure)
	v.Field("notes", d.Notes).MaxLength(1000)
	if d.RecordedAt != nil {
		v.Field("recorded_at", *d.RecordedAt).NotFuture()
	}
	v.Field("measurements", d).Custom(func(interface{}) *internal.AppError {
		if d.empty() && strings.TrimSpace(d.Notes) == "" {
			return internal.NewValidationFieldError("measurements", "at least one measurement is required", internal.ErrCodeInvalidMeasure)
		}
		return nil
	})

	if appErr := v.Validate(); appErr != nil {
		return 0, 0, appErr
	}
	return systolic, diastolic, nil
}

func (d RecordVitalSignDTO) empty() bool {
	return strings.TrimSpace(d.BloodPressure) == "" && d.Temperature == 0 && d.PulseRate == 0 &&
		d.RespiratoryRate == 0 && d.WeightKg == 0 && d.HeightCm == 0
}

type VitalSignResponse struct {
	*VitalSign
	BloodPressure string  `json:"blood_pressure,omitempty"`
	BMI           float64 `json:"bmi,omitempty"`
}

func (v *VitalSign) ToResponse() VitalSignResponse {
	return VitalSignResponse{VitalSign: v, BloodPressure: v.BloodPressure(), BMI: v.BMI()}
}

type ListVitalSignsResponse struct {
	PatientID  int64               `json:"patient_id"`
	VitalSigns []VitalSignResponse `json:"vital_signs"`
}
