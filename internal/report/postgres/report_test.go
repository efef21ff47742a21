package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	appointmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/appointment"
	assessmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/assessment"
	patientDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/patient"
	prescriptionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/prescription"
	"github.com/frahmantamala/clinic-management/internal/core/dbtest"
	"github.com/frahmantamala/clinic-management/internal/report"
	reportPostgres "github.com/frahmantamala/clinic-management/internal/report/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestReportPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Postgres Suite")
}

var _ = Describe("Report summary over SQLite", func() {
	var (
		db      *gorm.DB
		service *report.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		repo := reportPostgres.NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3"))
		service = report.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	It("should report zeros on an empty database", func() {
		s, err := service.Summary(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.ActivePatients).To(BeZero())
		Expect(s.AppointmentsByStatus).To(HaveKeyWithValue("no_show", int64(0)))
		Expect(s.NCDByRiskLevel).To(HaveLen(3))
	})

	It("should count rows by status and risk level", func() {
		birth := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
		Expect(db.Create(&patientDatamodel.Patient{RecordNumber: "PT-1", BirthDate: birth, Sex: "male"}).Error).To(Succeed())
		Expect(db.Create(&patientDatamodel.Patient{RecordNumber: "PT-2", BirthDate: birth, Sex: "female"}).Error).To(Succeed())
		Expect(db.Create(&patientDatamodel.Patient{RecordNumber: "PT-3", BirthDate: birth, Sex: "female", IsArchived: true}).Error).To(Succeed())

		at := time.Now().Add(time.Hour)
		for _, status := range []string{"scheduled", "scheduled", "completed"} {
			Expect(db.Create(&appointmentDatamodel.Appointment{PatientID: 1, ScheduledAt: at, Reason: "check", Status: status}).Error).To(Succeed())
		}
		for _, status := range []string{"active", "dispensed", "active"} {
			Expect(db.Create(&prescriptionDatamodel.Prescription{PatientID: 1, PrescribedBy: 1, Medication: "m", Dosage: "d", Status: status}).Error).To(Succeed())
		}
		for _, level := range []string{"high", "low", "high"} {
			Expect(db.Create(&assessmentDatamodel.NCDAssessment{PatientID: 1, AssessedBy: 1, RiskLevel: level}).Error).To(Succeed())
		}
		Expect(db.Create(&assessmentDatamodel.HEEADSSSAssessment{PatientID: 2, AssessedBy: 1, ReferralNeeded: true}).Error).To(Succeed())
		Expect(db.Create(&assessmentDatamodel.HEEADSSSAssessment{PatientID: 2, AssessedBy: 1}).Error).To(Succeed())

		s, err := service.Summary(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.ActivePatients).To(Equal(int64(2)))
		Expect(s.ArchivedPatients).To(Equal(int64(1)))
		Expect(s.AppointmentsByStatus).To(Equal(map[string]int64{"scheduled": 2, "completed": 1, "cancelled": 0, "no_show": 0}))
		Expect(s.ActivePrescriptions).To(Equal(int64(2)))
		Expect(s.NCDByRiskLevel).To(Equal(map[string]int64{"low": 1, "moderate": 0, "high": 2}))
		Expect(s.HEEADSSSReferrals).To(Equal(int64(1)))
	})
})
