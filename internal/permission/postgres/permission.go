package postgres

import (
	"context"
	"errors"
	"fmt"

	permissionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/permission"
	staffDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/staff"
	userDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/user"
	"github.com/frahmantamala/clinic-management/internal/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

var _ permission.RepositoryAPI = (*PermissionRepository)(nil)

// grantTable maps a subject to its grant table and owning column.
func grantTable(subject permission.Subject) (table, column string, err error) {
	switch subject {
	case permission.SubjectUser:
		return "user_permissions", "user_id", nil
	case permission.SubjectRole:
		return "role_permissions", "role_id", nil
	case permission.SubjectPosition:
		return "staff_position_permissions", "staff_position_id", nil
	case permission.SubjectStaff:
		return "staff_permissions", "staff_id", nil
	}
	return "", "", fmt.Errorf("unknown grant subject %q", subject)
}

func (r *PermissionRepository) UserStatus(ctx context.Context, userID int64) (bool, bool, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Select("id", "is_active").Where("id = ?", userID).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, err
	}
	return true, u.IsActive, nil
}

func (r *PermissionRepository) UserGrantNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("user_permissions AS up").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id = ?", userID).
		Pluck("p.name", &names).Error
	return names, err
}

func (r *PermissionRepository) RoleGrantNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("role_permissions AS rp").
		Joins("JOIN user_roles ur ON ur.role_id = rp.role_id").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Where("ur.user_id = ?", userID).
		Distinct().
		Pluck("p.name", &names).Error
	return names, err
}

// StaffGrantNames only follows active staff records.
func (r *PermissionRepository) StaffGrantNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.name FROM staff s
		JOIN staff_position_permissions spp ON spp.staff_position_id = s.staff_position_id
		JOIN permissions p ON p.id = spp.permission_id
		WHERE s.user_id = ? AND s.is_active = ?
		UNION
		SELECT p.name FROM staff s
		JOIN staff_permissions sp ON sp.staff_id = s.id
		JOIN permissions p ON p.id = sp.permission_id
		WHERE s.user_id = ? AND s.is_active = ?`,
		userID, true, userID, true,
	).Scan(&names).Error
	return names, err
}

func (r *PermissionRepository) ListPermissions(ctx context.Context) ([]*permissionDatamodel.Permission, error) {
	var perms []*permissionDatamodel.Permission
	err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&perms).Error
	return perms, err
}

func (r *PermissionRepository) GetPermissionByName(ctx context.Context, name string) (*permissionDatamodel.Permission, error) {
	var p permissionDatamodel.Permission
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) UpsertPermission(ctx context.Context, p *permissionDatamodel.Permission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "category", "updated_at"}),
	}).Create(p).Error
}

func (r *PermissionRepository) SubjectExists(ctx context.Context, subject permission.Subject, id int64) (bool, error) {
	var model interface{}
	switch subject {
	case permission.SubjectUser:
		model = &userDatamodel.User{}
	case permission.SubjectRole:
		model = &userDatamodel.Role{}
	case permission.SubjectPosition:
		model = &staffDatamodel.StaffPosition{}
	case permission.SubjectStaff:
		model = &staffDatamodel.Staff{}
	default:
		return false, fmt.Errorf("unknown grant subject %q", subject)
	}

	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// grantRow builds the grant row for subject; the zero row doubles as the
// delete target.
func grantRow(subject permission.Subject, subjectID, permissionID int64, grantedBy *int64) (interface{}, error) {
	switch subject {
	case permission.SubjectUser:
		return &permissionDatamodel.UserPermission{UserID: subjectID, PermissionID: permissionID, GrantedBy: grantedBy}, nil
	case permission.SubjectRole:
		return &permissionDatamodel.RolePermission{RoleID: subjectID, PermissionID: permissionID, GrantedBy: grantedBy}, nil
	case permission.SubjectPosition:
		return &permissionDatamodel.StaffPositionPermission{StaffPositionID: subjectID, PermissionID: permissionID, GrantedBy: grantedBy}, nil
	case permission.SubjectStaff:
		return &permissionDatamodel.StaffPermission{StaffID: subjectID, PermissionID: permissionID, GrantedBy: grantedBy}, nil
	}
	return nil, fmt.Errorf("unknown grant subject %q", subject)
}

func (r *PermissionRepository) Grant(ctx context.Context, subject permission.Subject, subjectID, permissionID int64, grantedBy *int64) (bool, error) {
	row, err := grantRow(subject, subjectID, permissionID, grantedBy)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PermissionRepository) Revoke(ctx context.Context, subject permission.Subject, subjectID, permissionID int64) (bool, error) {
	_, column, err := grantTable(subject)
	if err != nil {
		return false, err
	}
	model, err := grantRow(subject, 0, 0, nil)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).
		Where(column+" = ? AND permission_id = ?", subjectID, permissionID).
		Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PermissionRepository) ListGrantNames(ctx context.Context, subject permission.Subject, subjectID int64) ([]string, error) {
	table, column, err := grantTable(subject)
	if err != nil {
		return nil, err
	}
	var names []string
	err = r.db.WithContext(ctx).
		Table(table+" AS g").
		Joins("JOIN permissions p ON p.id = g.permission_id").
		Where("g."+column+" = ?", subjectID).
		Order("p.name ASC").
		Pluck("p.name", &names).Error
	return names, err
}
