package staff

import (
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/common/validation"
)

type CreatePositionDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CreatePositionDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d CreatePositionDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("description", d.Description).MaxLength(255)
	return v.Validate()
}

type CreateStaffDTO struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	LicenseNumber string `json:"license_number"`
	PositionID    *int64 `json:"position_id,omitempty"`
	UserID        *int64 `json:"user_id,omitempty"`
}

func (d *CreateStaffDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.LicenseNumber = strings.TrimSpace(d.LicenseNumber)
}

func (d CreateStaffDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("license_number", d.LicenseNumber).MaxLength(50)
	return v.Validate()
}

type AssignPositionDTO struct {
	PositionID int64 `json:"position_id"`
}

type LinkAccountDTO struct {
	UserID int64 `json:"user_id"`
}

type SetActiveDTO struct {
	IsActive bool `json:"is_active"`
}

type ListStaffResponse struct {
	Staff []*Staff `json:"staff"`
}

type ListPositionsResponse struct {
	Positions []*Position `json:"positions"`
}
