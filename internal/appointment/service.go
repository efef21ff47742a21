package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	appointmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/appointment"
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *appointmentDatamodel.Appointment) error
	// GetByID returns nil, nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*appointmentDatamodel.Appointment, error)
	List(ctx context.Context, f Filter) ([]*appointmentDatamodel.Appointment, int64, error)
	// UpdateIfStatus applies fields only while the row still has status
	// from, and reports whether it did.
	UpdateIfStatus(ctx context.Context, id int64, from Status, fields map[string]interface{}) (bool, error)
}

type PatientChecker interface {
	RequireActive(ctx context.Context, id int64) error
}

type StaffChecker interface {
	RequireActive(ctx context.Context, id int64) error
}

type Service struct {
	repo     RepositoryAPI
	patients PatientChecker
	staff    StaffChecker
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, patients PatientChecker, staff StaffChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, patients: patients, staff: staff, logger: logger, now: time.Now}
}

func (s *Service) Schedule(ctx context.Context, dto CreateAppointmentDTO, createdBy int64) (*Appointment, error) {
	dto.Normalize()
	if appErr := dto.Validate(s.now()); appErr != nil {
		return nil, appErr
	}
	if err := s.patients.RequireActive(ctx, dto.PatientID); err != nil {
		return nil, err
	}
	if dto.StaffID != nil {
		if err := s.staff.RequireActive(ctx, *dto.StaffID); err != nil {
			return nil, err
		}
	}

	row := ToDataModel(&Appointment{
		PatientID:   dto.PatientID,
		StaffID:     dto.StaffID,
		ScheduledAt: dto.ScheduledAt,
		Reason:      dto.Reason,
		Status:      StatusScheduled,
		Notes:       dto.Notes,
		CreatedBy:   createdBy,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to schedule appointment", "patient_id", dto.PatientID, "error", err)
		return nil, internal.NewInternalError("failed to schedule appointment", err)
	}
	s.logger.InfoContext(ctx, "appointment scheduled", "appointment_id", row.ID, "patient_id", row.PatientID)
	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load appointment", err)
	}
	if row == nil {
		return nil, internal.ErrAppointmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Appointment, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, internal.NewValidationFieldError("status", fmt.Sprintf("unknown status %q", f.Status), internal.ErrCodeInvalidStatus)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, 0, internal.NewValidationFieldError("to", "to must not be before from", internal.ErrCodeInvalidDate)
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list appointments", err)
	}
	out := make([]*Appointment, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Reschedule(ctx context.Context, id int64, at time.Time) (*Appointment, error) {
	if at.IsZero() || at.Before(s.now()) {
		return nil, internal.NewValidationFieldError("scheduled_at", "scheduled_at cannot be in the past", internal.ErrCodeInvalidDate)
	}
	return s.update(ctx, id, StatusScheduled, map[string]interface{}{"scheduled_at": at})
}

func (s *Service) Complete(ctx context.Context, id int64, notes string) (*Appointment, error) {
	return s.transition(ctx, id, StatusCompleted, notes)
}

func (s *Service) Cancel(ctx context.Context, id int64, notes string) (*Appointment, error) {
	return s.transition(ctx, id, StatusCancelled, notes)
}

func (s *Service) MarkNoShow(ctx context.Context, id int64, notes string) (*Appointment, error) {
	return s.transition(ctx, id, StatusNoShow, notes)
}

func (s *Service) transition(ctx context.Context, id int64, next Status, notes string) (*Appointment, error) {
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
	fields := map[string]interface{}{"status": string(next)}
	if notes = strings.TrimSpace(notes); notes != "" {
		fields["notes"] = notes
	}
	a, err := s.update(ctx, id, current.Status, fields)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "appointment status changed", "appointment_id", id, "from", current.Status, "to", next)
	return a, nil
}

// update guards on the expected status so two concurrent transitions cannot
// both succeed.
func (s *Service) update(ctx context.Context, id int64, expected Status, fields map[string]interface{}) (*Appointment, error) {
	ok, err := s.repo.UpdateIfStatus(ctx, id, expected, fields)
	if err != nil {
		return nil, internal.NewInternalError("failed to update appointment", err)
	}
	if !ok {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, internal.ErrInvalidStatus.WithDetails(map[string]string{"from": string(current.Status)})
	}
	return s.Get(ctx, id)
}
