// Package assessment holds the two screening forms used at the clinic: the
// NCD (non-communicable disease) risk assessment and the HEEADSSS adolescent
// psychosocial screen.
package assessment

import (
	"time"

	assessmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/assessment"
	"github.com/frahmantamala/clinic-management/internal/vitalsign"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

func (l RiskLevel) Valid() bool {
	return l == RiskLow || l == RiskModerate || l == RiskHigh
}

const (
	hypertensiveSystolic  = 140
	hypertensiveDiastolic = 90
	crisisSystolic        = 180
	crisisDiastolic       = 110
	overweightBMI         = 25.0
	highRiskFactorCount   = 4
	moderateRiskFactorMin = 2
	referralConcernCount  = 3
)

type NCDAssessment struct {
	ID                 int64     `json:"id"`
	PatientID          int64     `json:"patient_id"`
	AssessedBy         int64     `json:"assessed_by"`
	Smoking            bool      `json:"smoking"`
	BingeDrinking      bool      `json:"binge_drinking"`
	PhysicalInactivity bool      `json:"physical_inactivity"`
	UnhealthyDiet      bool      `json:"unhealthy_diet"`
	Diabetes           bool      `json:"diabetes"`
	FamilyHistory      bool      `json:"family_history"`
	Systolic           int       `json:"systolic,omitempty"`
	Diastolic          int       `json:"diastolic,omitempty"`
	WeightKg           float64   `json:"weight_kg,omitempty"`
	HeightCm           float64   `json:"height_cm,omitempty"`
	BMI                float64   `json:"bmi,omitempty"`
	RiskFactorCount    int       `json:"risk_factor_count"`
	RiskLevel          RiskLevel `json:"risk_level"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Score fills BMI, RiskFactorCount and RiskLevel from the answers. Each
// lifestyle or history answer counts once, raised blood pressure counts once
// and a BMI of 25 or more counts once. A hypertensive crisis reading is high
// risk regardless of the count.
func (a *NCDAssessment) Score() {
	a.BMI = vitalsign.BMI(a.WeightKg, a.HeightCm)

	count := 0
	for _, factor := range []bool{a.Smoking, a.BingeDrinking, a.PhysicalInactivity, a.UnhealthyDiet, a.Diabetes, a.FamilyHistory} {
		if factor {
			count++
		}
	}
	if a.Systolic >= hypertensiveSystolic || a.Diastolic >= hypertensiveDiastolic {
		count++
	}
	if a.BMI >= overweightBMI {
		count++
	}
	a.RiskFactorCount = count

	switch {
	case count >= highRiskFactorCount, a.Systolic >= crisisSystolic, a.Diastolic >= crisisDiastolic:
		a.RiskLevel = RiskHigh
	case count >= moderateRiskFactorMin:
		a.RiskLevel = RiskModerate
	default:
		a.RiskLevel = RiskLow
	}
}

// Domain is one HEEADSSS area: a free-text note and whether it raised a
// concern.
type Domain struct {
	Note    string `json:"note,omitempty"`
	Concern bool   `json:"concern"`
}

type HEEADSSSAssessment struct {
	ID             int64     `json:"id"`
	PatientID      int64     `json:"patient_id"`
	AssessedBy     int64     `json:"assessed_by"`
	Home           Domain    `json:"home"`
	Education      Domain    `json:"education"`
	Eating         Domain    `json:"eating"`
	Activities     Domain    `json:"activities"`
	Drugs          Domain    `json:"drugs"`
	Sexuality      Domain    `json:"sexuality"`
	Suicide        Domain    `json:"suicide"`
	Safety         Domain    `json:"safety"`
	ReferralNeeded bool      `json:"referral_needed"`
	CreatedAt      time.Time `json:"created_at"`
}

func (h *HEEADSSSAssessment) domains() []Domain {
	return []Domain{h.Home, h.Education, h.Eating, h.Activities, h.Drugs, h.Sexuality, h.Suicide, h.Safety}
}

func (h *HEEADSSSAssessment) ConcernCount() int {
	n := 0
	for _, d := range h.domains() {
		if d.Concern {
			n++
		}
	}
	return n
}

// NeedsReferral is true when the suicide/depression domain is flagged or
// three or more domains are.
func (h *HEEADSSSAssessment) NeedsReferral() bool {
	return h.Suicide.Concern || h.ConcernCount() >= referralConcernCount
}

func NCDToDataModel(a *NCDAssessment) *assessmentDatamodel.NCDAssessment {
	return &assessmentDatamodel.NCDAssessment{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		AssessedBy:         a.AssessedBy,
		Smoking:            a.Smoking,
		BingeDrinking:      a.BingeDrinking,
		PhysicalInactivity: a.PhysicalInactivity,
		UnhealthyDiet:      a.UnhealthyDiet,
		Diabetes:           a.Diabetes,
		FamilyHistory:      a.FamilyHistory,
		Systolic:           a.Systolic,
		Diastolic:          a.Diastolic,
		WeightKg:           a.WeightKg,
		HeightCm:           a.HeightCm,
		BMI:                a.BMI,
		RiskFactorCount:    a.RiskFactorCount,
		RiskLevel:          string(a.RiskLevel),
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
	}
}

func NCDFromDataModel(a *assessmentDatamodel.NCDAssessment) *NCDAssessment {
	return &NCDAssessment{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		AssessedBy:         a.AssessedBy,
		Smoking:            a.Smoking,
		BingeDrinking:      a.BingeDrinking,
		PhysicalInactivity: a.PhysicalInactivity,
		UnhealthyDiet:      a.UnhealthyDiet,
		Diabetes:           a.Diabetes,
		FamilyHistory:      a.FamilyHistory,
		Systolic:           a.Systolic,
		Diastolic:          a.Diastolic,
		WeightKg:           a.WeightKg,
		HeightCm:           a.HeightCm,
		BMI:                a.BMI,
		RiskFactorCount:    a.RiskFactorCount,
		RiskLevel:          RiskLevel(a.RiskLevel),
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
	}
}

func HEEADSSSToDataModel(h *HEEADSSSAssessment) *assessmentDatamodel.HEEADSSSAssessment {
	return &assessmentDatamodel.HEEADSSSAssessment{
		ID:                h.ID,
		PatientID:         h.PatientID,
		AssessedBy:        h.AssessedBy,
		HomeNote:          h.Home.Note,
		HomeConcern:       h.Home.Concern,
		EducationNote:     h.Education.Note,
		EducationConcern:  h.Education.Concern,
		EatingNote:        h.Eating.Note,
		EatingConcern:     h.Eating.Concern,
		ActivitiesNote:    h.Activities.Note,
		ActivitiesConcern: h.Activities.Concern,
		DrugsNote:         h.Drugs.Note,
		DrugsConcern:      h.Drugs.Concern,
		SexualityNote:     h.Sexuality.Note,
		SexualityConcern:  h.Sexuality.Concern,
		SuicideNote:       h.Suicide.Note,
		SuicideConcern:    h.Suicide.Concern,
		SafetyNote:        h.Safety.Note,
		SafetyConcern:     h.Safety.Concern,
		ReferralNeeded:    h.ReferralNeeded,
		CreatedAt:         h.CreatedAt,
	}
}

func HEEADSSSFromDataModel(h *assessmentDatamodel.HEEADSSSAssessment) *HEEADSSSAssessment {
	return &HEEADSSSAssessment{
		ID:             h.ID,
		PatientID:      h.PatientID,
		AssessedBy:     h.AssessedBy,
		Home:           Domain{Note: h.HomeNote, Concern: h.HomeConcern},
		Education:      Domain{Note: h.EducationNote, Concern: h.EducationConcern},
		Eating:         Domain{Note: h.EatingNote, Concern: h.EatingConcern},
		Activities:     Domain{Note: h.ActivitiesNote, Concern: h.ActivitiesConcern},
		Drugs:          Domain{Note: h.DrugsNote, Concern: h.DrugsConcern},
		Sexuality:      Domain{Note: h.SexualityNote, Concern: h.SexualityConcern},
		Suicide:        Domain{Note: h.SuicideNote, Concern: h.SuicideConcern},
		Safety:         Domain{Note: h.SafetyNote, Concern: h.SafetyConcern},
		ReferralNeeded: h.ReferralNeeded,
		CreatedAt:      h.CreatedAt,
	}
}
