// Package staff manages clinic staff records and the positions they hold.
// A staff record may be linked to one user account, which is how position
// and staff-level permission grants reach that user.
package staff

import (
	"strings"
	"time"

	staffDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/staff"
)

type Position struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Staff struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number,omitempty"`
	PositionID    *int64    `json:"position_id,omitempty"`
	UserID        *int64    `json:"user_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

func ToDataModel(s *Staff) *staffDatamodel.Staff {
	return &staffDatamodel.Staff{
		ID:              s.ID,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		LicenseNumber:   s.LicenseNumber,
		StaffPositionID: s.PositionID,
		UserID:          s.UserID,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func FromDataModel(s *staffDatamodel.Staff) *Staff {
	return &Staff{
		ID:            s.ID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		LicenseNumber: s.LicenseNumber,
		PositionID:    s.StaffPositionID,
		UserID:        s.UserID,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func PositionFromDataModel(p *staffDatamodel.StaffPosition) *Position {
	return &Position{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
