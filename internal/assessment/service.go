package assessment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/clinic-management/internal"
	assessmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/assessment"
)

type RepositoryAPI interface {
	CreateNCD(ctx context.Context, a *assessmentDatamodel.NCDAssessment) error
	// GetNCD and GetHEEADSSS return nil, nil when nothing matches.
	GetNCD(ctx context.Context, id int64) (*assessmentDatamodel.NCDAssessment, error)
	ListNCDByPatient(ctx context.Context, patientID int64) ([]*assessmentDatamodel.NCDAssessment, error)
	CreateHEEADSSS(ctx context.Context, a *assessmentDatamodel.HEEADSSSAssessment) error
	GetHEEADSSS(ctx context.Context, id int64) (*assessmentDatamodel.HEEADSSSAssessment, error)
	ListHEEADSSSByPatient(ctx context.Context, patientID int64) ([]*assessmentDatamodel.HEEADSSSAssessment, error)
}

type PatientChecker interface {
	RequireActive(ctx context.Context, id int64) error
}

type Service struct {
	repo     RepositoryAPI
	patients PatientChecker
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, patients PatientChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, patients: patients, logger: logger}
}

func (s *Service) RecordNCD(ctx context.Context, patientID int64, dto RecordNCDDTO, assessedBy int64) (*NCDAssessment, error) {
	systolic, diastolic, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}
	if err := s.patients.RequireActive(ctx, patientID); err != nil {
		return nil, err
	}

	a := &NCDAssessment{
		PatientID:          patientID,
		AssessedBy:         assessedBy,
		Smoking:            dto.Smoking,
		BingeDrinking:      dto.BingeDrinking,
		PhysicalInactivity: dto.PhysicalInactivity,
		UnhealthyDiet:      dto.UnhealthyDiet,
		Diabetes:           dto.Diabetes,
		FamilyHistory:      dto.FamilyHistory,
		Systolic:           systolic,
		Diastolic:          diastolic,
		WeightKg:           dto.WeightKg,
		HeightCm:           dto.HeightCm,
		Notes:              strings.TrimSpace(dto.Notes),
	}
	a.Score()

	row := NCDToDataModel(a)
	if err := s.repo.CreateNCD(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to record NCD assessment", "patient_id", patientID, "error", err)
		return nil, internal.NewInternalError("failed to record NCD assessment", err)
	}
	s.logger.InfoContext(ctx, "NCD assessment recorded",
		"assessment_id", row.ID,
		"patient_id", patientID,
		"risk_level", a.RiskLevel,
		"risk_factors", a.RiskFactorCount)
	return NCDFromDataModel(row), nil
}

func (s *Service) GetNCD(ctx context.Context, id int64) (*NCDAssessment, error) {
	row, err := s.repo.GetNCD(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load NCD assessment", err)
	}
	if row == nil {
		return nil, internal.ErrAssessmentNotFound
	}
	return NCDFromDataModel(row), nil
}

func (s *Service) ListNCD(ctx context.Context, patientID int64) ([]*NCDAssessment, error) {
	rows, err := s.repo.ListNCDByPatient(ctx, patientID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list NCD assessments", err)
	}
	out := make([]*NCDAssessment, 0, len(rows))
	for _, row := range rows {
		out = append(out, NCDFromDataModel(row))
	}
	return out, nil
}

func (s *Service) RecordHEEADSSS(ctx context.Context, patientID int64, dto RecordHEEADSSSDTO, assessedBy int64) (*HEEADSSSAssessment, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.patients.RequireActive(ctx, patientID); err != nil {
		return nil, err
	}

	h := &HEEADSSSAssessment{
		PatientID:  patientID,
		AssessedBy: assessedBy,
		Home:       dto.Home,
		Education:  dto.Education,
		Eating:     dto.Eating,
		Activities: dto.Activities,
		Drugs:      dto.Drugs,
		Sexuality:  dto.Sexuality,
		Suicide:    dto.Suicide,
		Safety:     dto.Safety,
	}
	h.ReferralNeeded = h.NeedsReferral()

	row := HEEADSSSToDataModel(h)
	if err := s.repo.CreateHEEADSSS(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to record HEEADSSS assessment", "patient_id", patientID, "error", err)
		return nil, internal.NewInternalError("failed to record HEEADSSS assessment", err)
	}
	if h.ReferralNeeded {
		s.logger.WarnContext(ctx, "HEEADSSS screen flagged for referral",
			"assessment_id", row.ID,
			"patient_id", patientID,
			"concerns", h.ConcernCount())
	}
	return HEEADSSSFromDataModel(row), nil
}

func (s *Service) GetHEEADSSS(ctx context.Context, id int64) (*HEEADSSSAssessment, error) {
	row, err := s.repo.GetHEEADSSS(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load HEEADSSS assessment", err)
	}
	if row == nil {
		return nil, internal.ErrAssessmentNotFound
	}
	return HEEADSSSFromDataModel(row), nil
}

func (s *Service) ListHEEADSSS(ctx context.Context, patientID int64) ([]*HEEADSSSAssessment, error) {
	rows, err := s.repo.ListHEEADSSSByPatient(ctx, patientID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list HEEADSSS assessments", err)
	}
	out := make([]*HEEADSSSAssessment, 0, len(rows))
	for _, row := range rows {
		out = append(out, HEEADSSSFromDataModel(row))
	}
	return out, nil
}
