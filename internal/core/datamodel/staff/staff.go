package staff

import "time"

type StaffPosition struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Staff struct {
	ID              int64     `gorm:"primaryKey"`
	FirstName       string    `gorm:"column:encrypted_first_name;serializer:phi"`
	LastName        string    `gorm:"column:encrypted_last_name;serializer:phi"`
	LicenseNumber   string    `gorm:"column:license_number"`
	StaffPositionID *int64    `gorm:"column:staff_position_id"`
	UserID          *int64    `gorm:"column:user_id;uniqueIndex"`
	IsActive        bool      `gorm:"column:is_active;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Staff) TableName() string {
	return "staff"
}

func AllModels() []interface{} {
	return []interface{}{&StaffPosition{}, &Staff{}}
}
