package appointment

import "time"

type Appointment struct {
	ID          int64     `gorm:"primaryKey"`
	PatientID   int64     `gorm:"column:patient_id;not null;index"`
	StaffID     *int64    `gorm:"column:staff_id"`
	ScheduledAt time.Time `gorm:"column:scheduled_at;not null;index"`
	Reason      string    `gorm:"column:reason"`
	Status      string    `gorm:"column:status;not null;index"`
	Notes       string    `gorm:"column:notes"`
	CreatedBy   int64     `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
