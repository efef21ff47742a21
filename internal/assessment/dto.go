package assessment

import (
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/common/validation"
	"github.com/frahmantamala/clinic-management/internal/vitalsign"
)

type RecordNCDDTO struct {
	Smoking            bool    `json:"smoking"`
	BingeDrinking      bool    `json:"binge_drinking"`
	PhysicalInactivity bool    `json:"physical_inactivity"`
	UnhealthyDiet      bool    `json:"unhealthy_diet"`
	Diabetes           bool    `json:"diabetes"`
	FamilyHistory      bool    `json:"family_history"`
	BloodPressure      string  `json:"blood_pressure"`
	WeightKg           float64 `json:"weight_kg"`
	HeightCm           float64 `json:"height_cm"`
	Notes              string  `json:"notes"`
}

// Validate parses the blood pressure reading and checks the measurements.
func (d RecordNCDDTO) Validate() (systolic, diastolic int, appErr *internal.AppError) {
	systolic, diastolic, err := vitalsign.ParseBloodPressure(d.BloodPressure)
	if err != nil {
		return 0, 0, internal.NewValidationFieldError("blood_pressure", "blood_pressure must look like 120/80", internal.ErrCodeInvalidMeasure)
	}
	if systolic != 0 && diastolic >= systolic {
		return 0, 0, internal.NewValidationFieldError("blood_pressure", "diastolic must be lower than systolic", internal.ErrCodeInvalidMeasure)
	}

	v := validation.NewValidator()
	if systolic != 0 || diastolic != 0 {
		v.Field("systolic", systolic).MinInt(50, internal.ErrCodeInvalidMeasure).MaxInt(300, internal.ErrCodeInvalidMeasure)
		v.Field("diastolic", diastolic).MinInt(30, internal.ErrCodeInvalidMeasure).MaxInt(200, internal.ErrCodeInvalidMeasure)
	}
	v.Field("weight_kg", d.WeightKg).Range(0.5, 500, internal.ErrCodeInvalidMeasure)
	v.Field("height_cm", d.HeightCm).Range(20, 250, internal.ErrCodeInvalidMeasure)
	v.Field("notes", d.Notes).MaxLength(2000)
	if appErr := v.Validate(); appErr != nil {
		return 0, 0, appErr
	}
	return systolic, diastolic, nil
}

type RecordHEEADSSSDTO struct {
	Home       Domain `json:"home"`
	Education  Domain `json:"education"`
	Eating     Domain `json:"eating"`
	Activities Domain `json:"activities"`
	Drugs      Domain `json:"drugs"`
	Sexuality  Domain `json:"sexuality"`
	Suicide    Domain `json:"suicide"`
	Safety     Domain `json:"safety"`
}

func (d *RecordHEEADSSSDTO) Normalize() {
	for _, dom := range []*Domain{&d.Home, &d.Education, &d.Eating, &d.Activities, &d.Drugs, &d.Sexuality, &d.Suicide, &d.Safety} {
		dom.Note = strings.TrimSpace(dom.Note)
	}
}

func (d RecordHEEADSSSDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("home.note", d.Home.Note).MaxLength(2000)
	v.Field("education.note", d.Education.Note).MaxLength(2000)
	v.Field("eating.note", d.Eating.Note).MaxLength(2000)
	v.Field("activities.note", d.Activities.Note).MaxLength(2000)
	v.Field("drugs.note", d.Drugs.Note).MaxLength(2000)
	v.Field("sexuality.note", d.Sexuality.Note).MaxLength(2000)
	v.Field("suicide.note", d.Suicide.Note).MaxLength(2000)
	v.Field("safety.note", d.Safety.Note).MaxLength(2000)
	return v.Validate()
}

type ListNCDResponse struct {
	Assessments []*NCDAssessment `json:"assessments"`
}

type ListHEEADSSSResponse struct {
	Assessments []*HEEADSSSAssessment `json:"assessments"`
}
