// Package vitalsign records patient measurements. Every measurement is
// stored encrypted as text and parsed back into numbers on read.
package vitalsign

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	vitalsignDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/vitalsign"
)

type VitalSign struct {
	ID              int64     `json:"id"`
	PatientID       int64     `json:"patient_id"`
	Systolic        int       `json:"systolic,omitempty"`
	Diastolic       int       `json:"diastolic,omitempty"`
	Temperature     float64   `json:"temperature_c,omitempty"`
	PulseRate       int       `json:"pulse_rate,omitempty"`
	RespiratoryRate int       `json:"respiratory_rate,omitempty"`
	WeightKg        float64   `json:"weight_kg,omitempty"`
	HeightCm        float64   `json:"height_cm,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	RecordedBy      int64     `json:"recorded_by"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// BloodPressure renders "systolic/diastolic", or "" when not taken.
func (v *VitalSign) BloodPressure() string {
	if v.Systolic == 0 && v.Diastolic == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", v.Systolic, v.Diastolic)
}

// BMI is weight over height squared, rounded to one decimal. Zero when
// either measurement is missing.
func (v *VitalSign) BMI() float64 {
	return BMI(v.WeightKg, v.HeightCm)
}

func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// ParseBloodPressure reads "120/80". An empty string is not an error.
func ParseBloodPressure(s string) (systolic, diastolic int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}
	sys, dia, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("blood pressure %q is not systolic/diastolic", s)
	}
	if systolic, err = strconv.Atoi(strings.TrimSpace(sys)); err != nil {
		return 0, 0, fmt.Errorf("systolic: %w", err)
	}
	if diastolic, err = strconv.Atoi(strings.TrimSpace(dia)); err != nil {
		return 0, 0, fmt.Errorf("diastolic: %w", err)
	}
	return systolic, diastolic, nil
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int) string {
	if i == 0 {
		return ""
	}
	return strconv.Itoa(i)
}

// parseFloat and parseInt treat unreadable values as not recorded; a blanked
// field after a failed decrypt lands here as "".
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func ToDataModel(v *VitalSign) *vitalsignDatamodel.VitalSign {
	return &vitalsignDatamodel.VitalSign{
		ID:              v.ID,
		PatientID:       v.PatientID,
		BloodPressure:   v.BloodPressure(),
		Temperature:     formatFloat(v.Temperature),
		PulseRate:       formatInt(v.PulseRate),
		RespiratoryRate: formatInt(v.RespiratoryRate),
		Weight:          formatFloat(v.WeightKg),
		Height:          formatFloat(v.HeightCm),
		Notes:           v.Notes,
		RecordedBy:      v.RecordedBy,
		RecordedAt:      v.RecordedAt,
	}
}

func FromDataModel(row *vitalsignDatamodel.VitalSign) *VitalSign {
	sys, dia, err := ParseBloodPressure(row.BloodPressure)
	if err != nil {
		sys, dia = 0, 0
	}
	return &VitalSign{
		ID:              row.ID,
		PatientID:       row.PatientID,
		Systolic:        sys,
		Diastolic:       dia,
		Temperature:     parseFloat(row.Temperature),
		PulseRate:       parseInt(row.PulseRate),
		RespiratoryRate: parseInt(row.RespiratoryRate),
		WeightKg:        parseFloat(row.Weight),
		HeightCm:        parseFloat(row.Height),
		Notes:           row.Notes,
		RecordedBy:      row.RecordedBy,
		RecordedAt:      row.RecordedAt,
	}
}
