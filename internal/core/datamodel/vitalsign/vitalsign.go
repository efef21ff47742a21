package vitalsign

import "time"

// VitalSign stores every measurement as encrypted text; the domain layer
// parses them back into numbers.
type VitalSign struct {
	ID              int64     `gorm:"primaryKey"`
	PatientID       int64     `gorm:"column:patient_id;not null;index"`
	BloodPressure   string    `gorm:"column:encrypted_blood_pressure;serializer:phi"`
	Temperature     string    `gorm:"column:encrypted_temperature;serializer:phi"`
	PulseRate       string    `gorm:"column:encrypted_pulse_rate;serializer:phi"`
	RespiratoryRate string    `gorm:"column:encrypted_respiratory_rate;serializer:phi"`
	Weight          string    `gorm:"column:encrypted_weight;serializer:phi"`
	Height          string    `gorm:"column:encrypted_height;serializer:phi"`
	Notes           string    `gorm:"column:encrypted_notes;serializer:phi"`
	RecordedBy      int64     `gorm:"column:recorded_by;not null"`
	RecordedAt      time.Time `gorm:"column:recorded_at;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
