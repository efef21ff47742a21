package postgres

import (
	"context"

	"github.com/frahmantamala/clinic-management/internal/report"
	"github.com/jmoiron/sqlx"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ report.RepositoryAPI = (*ReportRepository)(nil)

const (
	countPatientsQuery = `SELECT COUNT(*) FROM patients WHERE is_archived = ?`

	appointmentsByStatusQuery = `
		SELECT status AS label, COUNT(*) AS total
		FROM appointments
		GROUP BY status`

	countPrescriptionsQuery = `SELECT COUNT(*) FROM prescriptions WHERE status = ?`

	ncdByRiskLevelQuery = `
		SELECT risk_level AS label, COUNT(*) AS total
		FROM ncd_assessments
		GROUP BY risk_level`

	countReferralsQuery = `SELECT COUNT(*) FROM heeadsss_assessments WHERE referral_needed = ?`
)

func (r *ReportRepository) CountPatients(ctx context.Context, archived bool) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(countPatientsQuery), archived)
	return n, err
}

func (r *ReportRepository) AppointmentsByStatus(ctx context.Context) ([]report.Bucket, error) {
	var rows []report.Bucket
	err := r.db.SelectContext(ctx, &rows, appointmentsByStatusQuery)
	return rows, err
}

func (r *ReportRepository) CountPrescriptions(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(countPrescriptionsQuery), status)
	return n, err
}

func (r *ReportRepository) NCDByRiskLevel(ctx context.Context) ([]report.Bucket, error) {
	var rows []report.Bucket
	err := r.db.SelectContext(ctx, &rows, ncdByRiskLevelQuery)
	return rows, err
}

func (r *ReportRepository) CountReferrals(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(countReferralsQuery), true)
	return n, err
}
