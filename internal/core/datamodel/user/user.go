package user

import "time"

// User is an application account. Names are PHI-adjacent and stored encrypted.
type User struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:encrypted_first_name;serializer:phi"`
	LastName     string     `gorm:"column:encrypted_last_name;serializer:phi"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

type Role struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type UserRole struct {
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RoleID    int64     `gorm:"column:role_id;primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func AllModels() []interface{} {
	return []interface{}{&User{}, &Role{}, &UserRole{}}
}
