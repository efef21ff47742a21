package vitalsign

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	vitalsignDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/vitalsign"
)

type RepositoryAPI interface {
	Create(ctx context.Context, v *vitalsignDatamodel.VitalSign) error
	// GetByID returns nil, nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*vitalsignDatamodel.VitalSign, error)
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]*vitalsignDatamodel.VitalSign, error)
}

// PatientChecker confirms a patient exists and is not archived.
type PatientChecker interface {
	RequireActive(ctx context.Context, id int64) error
}

type Service struct {
	repo     RepositoryAPI
	patients PatientChecker
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, patients PatientChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, patients: patients, logger: logger, now: time.Now}
}

func (s *Service) Record(ctx context.Context, patientID int64, dto RecordVitalSignDTO, recordedBy int64) (*VitalSign, error) {
	sys, dia, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}
	if err := s.patients.RequireActive(ctx, patientID); err != nil {
		return nil, err
	}

	recordedAt := s.now()
	if dto.RecordedAt != nil {
		recordedAt = *dto.RecordedAt
	}
	v := &VitalSign{
		PatientID:       patientID,
		Systolic:        sys,
		Diastolic:       dia,
		Temperature:     dto.Temperature,
		PulseRate:       dto.PulseRate,
		RespiratoryRate: dto.RespiratoryRate,
		WeightKg:        dto.WeightKg,
		HeightCm:        dto.HeightCm,
		Notes:           strings.TrimSpace(dto.Notes),
		RecordedBy:      recordedBy,
		RecordedAt:      recordedAt,
	}
	row := ToDataModel(v)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to record vital signs", "patient_id", patientID, "error", err)
		return nil, internal.NewInternalError("failed to record vital signs", err)
	}
	v.ID = row.ID
	s.logger.InfoContext(ctx, "vital signs recorded", "patient_id", patientID, "vital_sign_id", row.ID)
	return v, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*VitalSign, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load vital signs", err)
	}
	if row == nil {
		return nil, internal.ErrVitalSignNotFound
	}
	return FromDataModel(row), nil
}

// ListByPatient returns the newest measurements first.
func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit int) ([]*VitalSign, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.repo.ListByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, internal.NewInternalError("failed to list vital signs", err)
	}
	out := make([]*VitalSign, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}
