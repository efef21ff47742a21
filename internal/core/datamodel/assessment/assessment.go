package assessment

import "time"

type NCDAssessment struct {
	ID                 int64     `gorm:"primaryKey"`
	PatientID          int64     `gorm:"column:patient_id;not null;index"`
	AssessedBy         int64     `gorm:"column:assessed_by;not null"`
	Smoking            bool      `gorm:"column:smoking"`
	BingeDrinking      bool      `gorm:"column:binge_drinking"`
	PhysicalInactivity bool      `gorm:"column:physical_inactivity"`
	UnhealthyDiet      bool      `gorm:"column:unhealthy_diet"`
	Diabetes           bool      `gorm:"column:diabetes"`
	FamilyHistory      bool      `gorm:"column:family_history"`
	Systolic           int       `gorm:"column:systolic"`
	Diastolic          int       `gorm:"column:diastolic"`
	WeightKg           float64   `gorm:"column:weight_kg"`
	HeightCm           float64   `gorm:"column:height_cm"`
	BMI                float64   `gorm:"column:bmi"`
	RiskFactorCount    int       `gorm:"column:risk_factor_count"`
	RiskLevel          string    `gorm:"column:risk_level;not null;index"`
	Notes              string    `gorm:"column:encrypted_notes;serializer:phi"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}

// HEEADSSSAssessment is the adolescent psychosocial screen. Each domain has
// an encrypted free-text note and a concern flag.
type HEEADSSSAssessment struct {
	ID                int64     `gorm:"primaryKey"`
	PatientID         int64     `gorm:"column:patient_id;not null;index"`
	AssessedBy        int64     `gorm:"column:assessed_by;not null"`
	HomeNote          string    `gorm:"column:encrypted_home_note;serializer:phi"`
	HomeConcern       bool      `gorm:"column:home_concern"`
	EducationNote     string    `gorm:"column:encrypted_education_note;serializer:phi"`
	EducationConcern  bool      `gorm:"column:education_concern"`
	EatingNote        string    `gorm:"column:encrypted_eating_note;serializer:phi"`
	EatingConcern     bool      `gorm:"column:eating_concern"`
	ActivitiesNote    string    `gorm:"column:encrypted_activities_note;serializer:phi"`
	ActivitiesConcern bool      `gorm:"column:activities_concern"`
	DrugsNote         string    `gorm:"column:encrypted_drugs_note;serializer:phi"`
	DrugsConcern      bool      `gorm:"column:drugs_concern"`
	SexualityNote     string    `gorm:"column:encrypted_sexuality_note;serializer:phi"`
	SexualityConcern  bool      `gorm:"column:sexuality_concern"`
	SuicideNote       string    `gorm:"column:encrypted_suicide_note;serializer:phi"`
	SuicideConcern    bool      `gorm:"column:suicide_concern"`
	SafetyNote        string    `gorm:"column:encrypted_safety_note;serializer:phi"`
	SafetyConcern     bool      `gorm:"column:safety_concern"`
	ReferralNeeded    bool      `gorm:"column:referral_needed"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (HEEADSSSAssessment) TableName() string {
	return "heeadsss_assessments"
}

func (NCDAssessment) TableName() string {
	return "ncd_assessments"
}
