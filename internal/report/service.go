package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
)

type RepositoryAPI interface {
	CountPatients(ctx context.Context, archived bool) (int64, error)
	AppointmentsByStatus(ctx context.Context) ([]Bucket, error)
	CountPrescriptions(ctx context.Context, status string) (int64, error)
	NCDByRiskLevel(ctx context.Context) ([]Bucket, error)
	CountReferrals(ctx context.Context) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Summary reports every known status and risk level, with zero for those
// that have no rows yet.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var (
		out = &Summary{GeneratedAt: s.now().UTC()}
		err error
	)

	if out.ActivePatients, err = s.repo.CountPatients(ctx, false); err != nil {
		return nil, s.fail(ctx, "patients", err)
	}
	if out.ArchivedPatients, err = s.repo.CountPatients(ctx, true); err != nil {
		return nil, s.fail(ctx, "patients", err)
	}

	appointments, err := s.repo.AppointmentsByStatus(ctx)
	if err != nil {
		return nil, s.fail(ctx, "appointments", err)
	}
	out.AppointmentsByStatus = toMap(appointments, "scheduled", "completed", "cancelled", "no_show")

	if out.ActivePrescriptions, err = s.repo.CountPrescriptions(ctx, "active"); err != nil {
		return nil, s.fail(ctx, "prescriptions", err)
	}

	risk, err := s.repo.NCDByRiskLevel(ctx)
	if err != nil {
		return nil, s.fail(ctx, "ncd_assessments", err)
	}
	out.NCDByRiskLevel = toMap(risk, "low", "moderate", "high")

	if out.HEEADSSSReferrals, err = s.repo.CountReferrals(ctx); err != nil {
		return nil, s.fail(ctx, "heeadsss_assessments", err)
	}
	return out, nil
}

func (s *Service) fail(ctx context.Context, section string, err error) error {
	s.logger.ErrorContext(ctx, "failed to build report summary", "section", section, "error", err)
	return internal.NewInternalError("failed to build report summary", err)
}
