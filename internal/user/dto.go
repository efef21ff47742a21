package user

import (
	"regexp"
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/common/validation"
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type CreateUserDTO struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles,omitempty"`
}

func (d *CreateUserDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	for i, r := range d.Roles {
		d.Roles[i] = strings.ToLower(strings.TrimSpace(r))
	}
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	return v.Validate()
}

type SetActiveDTO struct {
	IsActive bool `json:"is_active"`
}

type CreateRoleDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CreateRoleDTO) Normalize() {
	d.Name = strings.ToLower(strings.TrimSpace(d.Name))
	d.Description = strings.TrimSpace(d.Description)
}

func (d CreateRoleDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(50).
		Matches(roleNamePattern, "must be lowercase letters, digits or underscores")
	v.Field("description", d.Description).MaxLength(255)
	return v.Validate()
}

type ListUsersResponse struct {
	Users  []*User `json:"users"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type ListRolesResponse struct {
	Roles []*Role `json:"roles"`
}

type RoleChangeResponse struct {
	UserID  int64  `json:"user_id"`
	RoleID  int64  `json:"role_id"`
	Changed bool   `json:"changed"`
	Action  string `json:"action"`
}
