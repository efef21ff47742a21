package patient

import "time"

type Patient struct {
	ID               int64     `gorm:"primaryKey"`
	RecordNumber     string    `gorm:"column:record_number;uniqueIndex;not null"`
	FirstName        string    `gorm:"column:encrypted_first_name;serializer:phi"`
	MiddleName       string    `gorm:"column:encrypted_middle_name;serializer:phi"`
	LastName         string    `gorm:"column:encrypted_last_name;serializer:phi"`
	BirthDate        time.Time `gorm:"column:birth_date;not null"`
	Sex              string    `gorm:"column:sex;not null"`
	CivilStatus      string    `gorm:"column:civil_status"`
	Address          string    `gorm:"column:encrypted_address;serializer:phi"`
	ContactNumber    string    `gorm:"column:encrypted_contact_number;serializer:phi"`
	PhilHealthNumber string    `gorm:"column:encrypted_philhealth_number;serializer:phi"`
	IsArchived       bool      `gorm:"column:is_archived;not null"`
	CreatedBy        int64     `gorm:"column:created_by"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
