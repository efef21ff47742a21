package postgres

import (
	"context"
	"errors"
	"time"

	prescriptionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/prescription"
	"github.com/frahmantamala/clinic-management/internal/prescription"
	"gorm.io/gorm"
)

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

var _ prescription.RepositoryAPI = (*PrescriptionRepository)(nil)

func (r *PrescriptionRepository) Create(ctx context.Context, p *prescriptionDatamodel.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id int64) (*prescriptionDatamodel.Prescription, error) {
	var p prescriptionDatamodel.Prescription
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PrescriptionRepository) List(ctx context.Context, f prescription.Filter) ([]*prescriptionDatamodel.Prescription, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&prescriptionDatamodel.Prescription{})
		if f.PatientID > 0 {
			q = q.Where("patient_id = ?", f.PatientID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", string(f.Status))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*prescriptionDatamodel.Prescription
	err := filtered().
		Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *PrescriptionRepository) UpdateIfStatus(ctx context.Context, id int64, from prescription.Status, fields map[string]interface{}) (bool, error) {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&prescriptionDatamodel.Prescription{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}
