// Package permission holds the typed permission catalog and resolves the
// effective permission set of a user from every grant path.
package permission

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	permissionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/permission"
)

type Permission string

const (
	ViewPatients        Permission = "view_patients"
	ManagePatients      Permission = "manage_patients"
	ViewVitalSigns      Permission = "view_vital_signs"
	RecordVitalSigns    Permission = "record_vital_signs"
	ViewAppointments    Permission = "view_appointments"
	ManageAppointments  Permission = "manage_appointments"
	ViewPrescriptions   Permission = "view_prescriptions"
	ManagePrescriptions Permission = "manage_prescriptions"
	DispenseMedicines   Permission = "dispense_medicines"
	ViewAssessments     Permission = "view_assessments"
	ManageAssessments   Permission = "manage_assessments"
	ViewStaff           Permission = "view_staff"
	ManageStaff         Permission = "manage_staff"
	ManageUsers         Permission = "manage_users"
	ManagePermissions   Permission = "manage_permissions"
	ViewReports         Permission = "view_reports"
)

const (
	CategoryPatients       = "patients"
	CategoryVitalSigns     = "vital_signs"
	CategoryAppointments   = "appointments"
	CategoryPrescriptions  = "prescriptions"
	CategoryAssessments    = "assessments"
	CategoryStaff          = "staff"
	CategoryAdministration = "administration"
	CategoryReports        = "reports"
)

type Definition struct {
	Name        Permission `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
}

var catalog = []Definition{
	{ViewPatients, "View patient records", CategoryPatients},
	{ManagePatients, "Register, update and archive patient records", CategoryPatients},
	{ViewVitalSigns, "View recorded vital signs", CategoryVitalSigns},
	{RecordVitalSigns, "Record vital signs for a patient", CategoryVitalSigns},
	{ViewAppointments, "View the appointment schedule", CategoryAppointments},
	{ManageAppointments, "Book, complete and cancel appointments", CategoryAppointments},
	{ViewPrescriptions, "View prescriptions", CategoryPrescriptions},
	{ManagePrescriptions, "Write and cancel prescriptions", CategoryPrescriptions},
	{DispenseMedicines, "Dispense prescribed medicines", CategoryPrescriptions},
	{ViewAssessments, "View NCD and HEEADSSS assessments", CategoryAssessments},
	{ManageAssessments, "Conduct NCD and HEEADSSS assessments", CategoryAssessments},
	{ViewStaff, "View staff records and positions", CategoryStaff},
	{ManageStaff, "Create staff records and assign positions", CategoryStaff},
	{ManageUsers, "Create user accounts and assign roles", CategoryAdministration},
	{ManagePermissions, "Grant and revoke permissions", CategoryAdministration},
	{ViewReports, "View clinic summary reports", CategoryReports},
}

var byName = func() map[Permission]Definition {
	m := make(map[Permission]Definition, len(catalog))
	for _, d := range catalog {
		m[d.Name] = d
	}
	return m
}()

// Catalog returns a copy of every known permission in declaration order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(p Permission) (Definition, bool) {
	d, ok := byName[p]
	return d, ok
}

// Parse turns a stored or user supplied name into a Permission.
func Parse(name string) (Permission, error) {
	p := Permission(strings.TrimSpace(strings.ToLower(name)))
	if _, ok := byName[p]; !ok {
		return "", internal.ErrUnknownPermission.WithDetails(internal.ValidationErrors{
			Errors: []internal.ValidationError{{
				Field:   "permission",
				Message: fmt.Sprintf("unknown permission %q", name),
				Code:    string(internal.ErrCodeInvalidPermission),
			}},
		})
	}
	return p, nil
}

func MustParse(name string) Permission {
	p, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Permission) String() string {
	return string(p)
}

func (p Permission) Valid() bool {
	_, ok := byName[p]
	return ok
}

func ToDataModel(d Definition) *permissionDatamodel.Permission {
	return &permissionDatamodel.Permission{
		Name:        string(d.Name),
		Description: d.Description,
		Category:    d.Category,
	}
}

func FromDataModel(p *permissionDatamodel.Permission) Definition {
	return Definition{
		Name:        Permission(p.Name),
		Description: p.Description,
		Category:    p.Category,
	}
}

// Subject is the kind of grantee a permission is attached to.
type Subject string

const (
	SubjectUser     Subject = "user"
	SubjectRole     Subject = "role"
	SubjectPosition Subject = "position"
	SubjectStaff    Subject = "staff"
)

// ParseSubject accepts both the singular form and the plural route segment.
func ParseSubject(s string) (Subject, bool) {
	switch strings.ToLower(s) {
	case "user", "users":
		return SubjectUser, true
	case "role", "roles":
		return SubjectRole, true
	case "position", "positions":
		return SubjectPosition, true
	case "staff":
		return SubjectStaff, true
	}
	return "", false
}
