package postgres

import (
	"context"
	"errors"
	"time"

	staffDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/staff"
	userDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/user"
	"github.com/frahmantamala/clinic-management/internal/staff"
	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

var _ staff.RepositoryAPI = (*StaffRepository)(nil)

func (r *StaffRepository) ListPositions(ctx context.Context) ([]*staffDatamodel.StaffPosition, error) {
	var positions []*staffDatamodel.StaffPosition
	err := r.db.WithContext(ctx).Order("name ASC").Find(&positions).Error
	return positions, err
}

func (r *StaffRepository) GetPositionByID(ctx context.Context, id int64) (*staffDatamodel.StaffPosition, error) {
	return firstOrNil[staffDatamodel.StaffPosition](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *StaffRepository) GetPositionByName(ctx context.Context, name string) (*staffDatamodel.StaffPosition, error) {
	return firstOrNil[staffDatamodel.StaffPosition](r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name))
}

func (r *StaffRepository) CreatePosition(ctx context.Context, p *staffDatamodel.StaffPosition) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *StaffRepository) List(ctx context.Context, activeOnly bool) ([]*staffDatamodel.Staff, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []*staffDatamodel.Staff
	err := q.Find(&rows).Error
	return rows, err
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*staffDatamodel.Staff, error) {
	return firstOrNil[staffDatamodel.Staff](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *StaffRepository) GetByUserID(ctx context.Context, userID int64) (*staffDatamodel.Staff, error) {
	return firstOrNil[staffDatamodel.Staff](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *StaffRepository) Create(ctx context.Context, s *staffDatamodel.Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Update writes plain columns only; encrypted columns go through Save.
func (r *StaffRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&staffDatamodel.Staff{}).Where("id = ?", id).Updates(fields).Error
}

func (r *StaffRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

func firstOrNil[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
