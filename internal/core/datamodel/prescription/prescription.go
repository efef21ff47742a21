package prescription

import "time"

type Prescription struct {
	ID           int64      `gorm:"primaryKey"`
	PatientID    int64      `gorm:"column:patient_id;not null;index"`
	PrescribedBy int64      `gorm:"column:prescribed_by;not null"`
	Medication   string     `gorm:"column:medication;not null"`
	Dosage       string     `gorm:"column:dosage;not null"`
	Frequency    string     `gorm:"column:frequency"`
	Duration     string     `gorm:"column:duration"`
	Instructions string     `gorm:"column:instructions"`
	Status       string     `gorm:"column:status;not null;index"`
	DispensedBy  *int64     `gorm:"column:dispensed_by"`
	DispensedAt  *time.Time `gorm:"column:dispensed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
