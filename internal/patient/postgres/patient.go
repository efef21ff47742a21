package postgres

import (
	"context"
	"errors"
	"time"

	patientDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/patient"
	"github.com/frahmantamala/clinic-management/internal/patient"
	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

var _ patient.RepositoryAPI = (*PatientRepository)(nil)

func (r *PatientRepository) Create(ctx context.Context, p *patientDatamodel.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PatientRepository) UpdateColumns(ctx context.Context, p *patientDatamodel.Patient, columns []string) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(p).Select(append(columns, "updated_at")).Updates(p).Error
}

func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*patientDatamodel.Patient, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PatientRepository) GetByRecordNumber(ctx context.Context, recordNumber string) (*patientDatamodel.Patient, error) {
	return r.first(r.db.WithContext(ctx).Where("record_number = ?", recordNumber))
}

func (r *PatientRepository) first(q *gorm.DB) (*patientDatamodel.Patient, error) {
	var p patientDatamodel.Patient
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context, includeArchived bool, limit, offset int) ([]*patientDatamodel.Patient, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&patientDatamodel.Patient{})
		if !includeArchived {
			q = q.Where("is_archived = ?", false)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*patientDatamodel.Patient
	err := base().Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *PatientRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	return r.db.WithContext(ctx).Model(&patientDatamodel.Patient{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_archived": archived,
			"updated_at":  time.Now(),
		}).Error
}
