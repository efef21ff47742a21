package postgres

import (
	"context"
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/user"
	"github.com/frahmantamala/clinic-management/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.RepositoryAPI = (*UserRepository)(nil)

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*userDatamodel.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User, roleIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if err := tx.Create(&userDatamodel.UserRole{UserID: u.ID, RoleID: roleID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		}).Error
}

// RoleNames lists role names in assignment order, so the first one is the
// user's primary role.
func (r *UserRepository) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("user_roles AS ur").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Order("ur.created_at ASC, r.id ASC").
		Pluck("r.name", &names).Error
	return names, err
}

func (r *UserRepository) ListRoles(ctx context.Context) ([]*userDatamodel.Role, error) {
	var roles []*userDatamodel.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *UserRepository) GetRoleByID(ctx context.Context, id int64) (*userDatamodel.Role, error) {
	var role userDatamodel.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *UserRepository) GetRoleByName(ctx context.Context, name string) (*userDatamodel.Role, error) {
	var role userDatamodel.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *UserRepository) CreateRole(ctx context.Context, role *userDatamodel.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *UserRepository) AssignRole(ctx context.Context, userID, roleID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userDatamodel.UserRole{UserID: userID, RoleID: roleID})
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepository) RemoveRole(ctx context.Context, userID, roleID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&userDatamodel.UserRole{})
	return res.RowsAffected > 0, res.Error
}
