package prescription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	prescriptionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/prescription"
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *prescriptionDatamodel.Prescription) error
	// GetByID returns nil, nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*prescriptionDatamodel.Prescription, error)
	List(ctx context.Context, f Filter) ([]*prescriptionDatamodel.Prescription, int64, error)
	UpdateIfStatus(ctx context.Context, id int64, from Status, fields map[string]interface{}) (bool, error)
}

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

func (s *Service) Create(ctx context.Context, dto CreatePrescriptionDTO, prescribedBy int64) (*Prescription, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.patients.RequireActive(ctx, dto.PatientID); err != nil {
		return nil, err
	}

	row := ToDataModel(&Prescription{
		PatientID:    dto.PatientID,
		PrescribedBy: prescribedBy,
		Medication:   dto.Medication,
		Dosage:       dto.Dosage,
		Frequency:    dto.Frequency,
		Duration:     dto.Duration,
		Instructions: dto.Instructions,
		Status:       StatusActive,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create prescription", "patient_id", dto.PatientID, "error", err)
		return nil, internal.NewInternalError("failed to create prescription", err)
	}
	s.logger.InfoContext(ctx, "prescription created", "prescription_id", row.ID, "patient_id", row.PatientID)
	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Prescription, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load prescription", err)
	}
	if row == nil {
		return nil, internal.ErrPrescriptionNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Prescription, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, internal.NewValidationFieldError("status", fmt.Sprintf("unknown status %q", f.Status), internal.ErrCodeInvalidStatus)
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list prescriptions", err)
	}
	out := make([]*Prescription, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

// Dispense records who handed the medicine over and when.
func (s *Service) Dispense(ctx context.Context, id, dispensedBy int64) (*Prescription, error) {
	now := s.now()
	return s.transition(ctx, id, StatusDispensed, map[string]interface{}{
		"dispensed_by": dispensedBy,
		"dispensed_at": now,
	})
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Prescription, error) {
	return s.transition(ctx, id, StatusCancelled, map[string]interface{}{})
}

func (s *Service) transition(ctx context.Context, id int64, next Status, fields map[string]interface{}) (*Prescription, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, internal.ErrInvalidStatus.WithDetails(map[string]string{
			"from": string(current.Status),
			"to":   string(next),
		})
	}

	fields["status"] = string(next)
	ok, err := s.repo.UpdateIfStatus(ctx, id, current.Status, fields)
	if err != nil {
		return nil, internal.NewInternalError("failed to update prescription", err)
	}
	if !ok {
		return nil, internal.ErrInvalidStatus.WithDetails(map[string]string{"to": string(next)})
	}
	s.logger.InfoContext(ctx, "prescription status changed", "prescription_id", id, "from", current.Status, "to", next)
	return s.Get(ctx, id)
}
