package permission

import "time"

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Category    string    `gorm:"column:category;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type UserPermission struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_permission"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_user_permission"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type RolePermission struct {
	ID           int64     `gorm:"primaryKey"`
	RoleID       int64     `gorm:"column:role_id;not null;uniqueIndex:idx_role_permission"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permission"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type StaffPermission struct {
	ID           int64     `gorm:"primaryKey"`
	StaffID      int64     `gorm:"column:staff_id;not null;uniqueIndex:idx_staff_permission"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_staff_permission"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type StaffPositionPermission struct {
	ID              int64     `gorm:"primaryKey"`
	StaffPositionID int64     `gorm:"column:staff_position_id;not null;uniqueIndex:idx_position_permission"`
	PermissionID    int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_position_permission"`
	GrantedBy       *int64    `gorm:"column:granted_by"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// AllModels lists every grant table, in dependency order, for AutoMigrate in tests.
func AllModels() []interface{} {
	return []interface{}{
		&Permission{},
		&UserPermission{},
		&RolePermission{},
		&StaffPermission{},
		&StaffPositionPermission{},
	}
}
