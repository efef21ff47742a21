package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/clinic-management/internal/auth"
	userDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ auth.RepositoryAPI = (*Repository)(nil)

// GetCredentialsByEmail only selects login columns so the encrypted name
// columns are never decrypted on the login path.
func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "password_hash", "is_active").
		Where("email = ?", email).
		Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}, nil
}

func (r *Repository) GetAccount(ctx context.Context, userID int64) (*auth.Account, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "is_active").
		Where("id = ?", userID).
		Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var roles []string
	err = r.db.WithContext(ctx).
		Table("user_roles AS ur").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Order("ur.created_at ASC, r.name ASC").
		Pluck("r.name", &roles).Error
	if err != nil {
		return nil, err
	}

	return &auth.Account{
		ID:       u.ID,
		Email:    u.Email,
		IsActive: u.IsActive,
		Roles:    roles,
	}, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login_at", at).Error
}
