package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/clinic-management/internal/assessment"
	assessmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/assessment"
	"gorm.io/gorm"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

var _ assessment.RepositoryAPI = (*AssessmentRepository)(nil)

func (r *AssessmentRepository) CreateNCD(ctx context.Context, a *assessmentDatamodel.NCDAssessment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AssessmentRepository) GetNCD(ctx context.Context, id int64) (*assessmentDatamodel.NCDAssessment, error) {
	var a assessmentDatamodel.NCDAssessment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) ListNCDByPatient(ctx context.Context, patientID int64) ([]*assessmentDatamodel.NCDAssessment, error) {
	var rows []*assessmentDatamodel.NCDAssessment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AssessmentRepository) CreateHEEADSSS(ctx context.Context, a *assessmentDatamodel.HEEADSSSAssessment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AssessmentRepository) GetHEEADSSS(ctx context.Context, id int64) (*assessmentDatamodel.HEEADSSSAssessment, error) {
	var a assessmentDatamodel.HEEADSSSAssessment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) ListHEEADSSSByPatient(ctx context.Context, patientID int64) ([]*assessmentDatamodel.HEEADSSSAssessment, error) {
	var rows []*assessmentDatamodel.HEEADSSSAssessment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}
