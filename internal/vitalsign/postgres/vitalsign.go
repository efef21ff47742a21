package postgres

import (
	"context"
	"errors"

	vitalsignDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/vitalsign"
	"github.com/frahmantamala/clinic-management/internal/vitalsign"
	"gorm.io/gorm"
)

type VitalSignRepository struct {
	db *gorm.DB
}

func NewVitalSignRepository(db *gorm.DB) *VitalSignRepository {
	return &VitalSignRepository{db: db}
}

var _ vitalsign.RepositoryAPI = (*VitalSignRepository)(nil)

func (r *VitalSignRepository) Create(ctx context.Context, v *vitalsignDatamodel.VitalSign) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VitalSignRepository) GetByID(ctx context.Context, id int64) (*vitalsignDatamodel.VitalSign, error) {
	var v vitalsignDatamodel.VitalSign
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VitalSignRepository) ListByPatient(ctx context.Context, patientID int64, limit int) ([]*vitalsignDatamodel.VitalSign, error) {
	var rows []*vitalsignDatamodel.VitalSign
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
