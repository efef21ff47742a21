package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/permission"
	"github.com/frahmantamala/clinic-management/internal/staff"
	"github.com/frahmantamala/clinic-management/internal/user"
)

type seedRole struct {
	name        string
	description string
	grants      []permission.Permission
}

var defaultRoles = []seedRole{
	{"doctor", "Physician", []permission.Permission{
		permission.ViewPatients, permission.ManagePatients,
		permission.ViewVitalSigns, permission.RecordVitalSigns,
		permission.ViewAppointments, permission.ManageAppointments,
		permission.ViewPrescriptions, permission.ManagePrescriptions,
		permission.ViewAssessments, permission.ManageAssessments,
		permission.ViewStaff,
	}},
	{"nurse", "Nurse", []permission.Permission{
		permission.ViewPatients,
		permission.ViewVitalSigns, permission.RecordVitalSigns,
		permission.ViewAppointments, permission.ManageAppointments,
		permission.ViewPrescriptions,
		permission.ViewAssessments, permission.ManageAssessments,
	}},
	{"midwife", "Midwife", []permission.Permission{
		permission.ViewPatients, permission.ManagePatients,
		permission.ViewVitalSigns, permission.RecordVitalSigns,
		permission.ViewAppointments, permission.ManageAppointments,
		permission.ViewAssessments, permission.ManageAssessments,
	}},
	{"pharmacist", "Pharmacist", []permission.Permission{
		permission.ViewPatients,
		permission.ViewPrescriptions, permission.DispenseMedicines,
	}},
	{"records_clerk", "Records clerk", []permission.Permission{
		permission.ViewPatients, permission.ManagePatients,
		permission.ViewAppointments, permission.ManageAppointments,
	}},
}

var defaultPositions = []seedRole{
	{"Municipal Health Officer", "Head of the clinic", []permission.Permission{permission.ViewReports, permission.ViewStaff}},
	{"Public Health Nurse", "", nil},
	{"Rural Health Midwife", "", nil},
	{"Barangay Health Worker", "Community health volunteer", []permission.Permission{permission.ViewPatients, permission.RecordVitalSigns}},
}

const adminRole = "admin"

// Seed syncs the permission catalog and makes sure the default roles,
// positions and grants exist. It creates the admin account when a password
// is configured. Running it again changes nothing.
func (a *App) Seed(ctx context.Context) error {
	if err := a.Permissions.SyncCatalog(ctx); err != nil {
		return err
	}

	all := make([]permission.Permission, 0, len(permission.Catalog()))
	for _, d := range permission.Catalog() {
		all = append(all, d.Name)
	}
	roles := append([]seedRole{{adminRole, "Administrator", all}}, defaultRoles...)

	existingRoles, err := a.Users.ListRoles(ctx)
	if err != nil {
		return err
	}
	roleIDs := make(map[string]int64, len(existingRoles))
	for _, r := range existingRoles {
		roleIDs[r.Name] = r.ID
	}
	for _, r := range roles {
		id, ok := roleIDs[r.name]
		if !ok {
			created, err := a.Users.CreateRole(ctx, user.CreateRoleDTO{Name: r.name, Description: r.description})
			if err != nil {
				return fmt.Errorf("seed role %s: %w", r.name, err)
			}
			id = created.ID
		}
		if err := a.grantAll(ctx, permission.SubjectRole, id, r.grants); err != nil {
			return err
		}
	}

	existingPositions, err := a.Staff.ListPositions(ctx)
	if err != nil {
		return err
	}
	positionIDs := make(map[string]int64, len(existingPositions))
	for _, p := range existingPositions {
		positionIDs[strings.ToLower(p.Name)] = p.ID
	}
	for _, p := range defaultPositions {
		id, ok := positionIDs[strings.ToLower(p.name)]
		if !ok {
			created, err := a.Staff.CreatePosition(ctx, staff.CreatePositionDTO{Name: p.name, Description: p.description})
			if err != nil {
				return fmt.Errorf("seed position %s: %w", p.name, err)
			}
			id = created.ID
		}
		if err := a.grantAll(ctx, permission.SubjectPosition, id, p.grants); err != nil {
			return err
		}
	}

	return a.seedAdmin(ctx)
}

func (a *App) grantAll(ctx context.Context, subject permission.Subject, id int64, perms []permission.Permission) error {
	for _, p := range perms {
		if _, err := a.Permissions.Grant(ctx, subject, id, string(p), 0); err != nil {
			return fmt.Errorf("seed grant %s to %s %d: %w", p, subject, id, err)
		}
	}
	return nil
}

func (a *App) seedAdmin(ctx context.Context) error {
	cfg := a.Config.Seed
	if cfg.AdminPassword == "" {
		a.Logger.InfoContext(ctx, "no admin password configured, skipping admin account")
		return nil
	}
	_, err := a.Users.CreateUser(ctx, user.CreateUserDTO{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: "Clinic",
		LastName:  "Administrator",
		Roles:     []string{adminRole},
	})
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeConflict {
		a.Logger.InfoContext(ctx, "admin account already exists", "email", cfg.AdminEmail)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	a.Logger.InfoContext(ctx, "admin account created", "email", cfg.AdminEmail)
	return nil
}

// ClearGrants revokes every grant held by roles and staff positions so a
// following Seed restores the defaults exactly. User and staff record grants
// are left alone.
func (a *App) ClearGrants(ctx context.Context) error {
	roles, err := a.Users.ListRoles(ctx)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if err := a.revokeAll(ctx, permission.SubjectRole, r.ID); err != nil {
			return err
		}
	}

	positions, err := a.Staff.ListPositions(ctx)
	if err != nil {
		return err
	}
	for _, p := range positions {
		if err := a.revokeAll(ctx, permission.SubjectPosition, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) revokeAll(ctx context.Context, subject permission.Subject, id int64) error {
	held, err := a.Permissions.ListGrants(ctx, subject, id)
	if err != nil {
		return err
	}
	for _, name := range held.Names() {
		if _, err := a.Permissions.Revoke(ctx, subject, id, name, 0); err != nil {
			return fmt.Errorf("clear grant %s from %s %d: %w", name, subject, id, err)
		}
	}
	return nil
}
