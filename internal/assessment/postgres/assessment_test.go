package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/assessment"
	assessmentPostgres "github.com/frahmantamala/clinic-management/internal/assessment/postgres"
	"github.com/frahmantamala/clinic-management/internal/core/dbtest"
	"github.com/frahmantamala/clinic-management/internal/core/fieldcrypt"
	"github.com/frahmantamala/clinic-management/internal/patient"
	patientPostgres "github.com/frahmantamala/clinic-management/internal/patient/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestAssessmentPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Assessment Postgres Suite")
}

var _ = Describe("Assessment service over SQLite", func() {
	var (
		db        *gorm.DB
		patients  *patient.Service
		service   *assessment.Service
		ctx       context.Context
		patientID int64
	)

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		log := slog.New(slog.NewTextHandler(io.Discard, nil))

		patients = patient.NewService(patientPostgres.NewPatientRepository(db), log)
		service = assessment.NewService(assessmentPostgres.NewAssessmentRepository(db), patients, log)

		p, err := patients.Register(ctx, patient.CreatePatientDTO{FirstName: "Ana", LastName: "Reyes", BirthDate: "2009-03-14", Sex: "female"}, 1)
		Expect(err).NotTo(HaveOccurred())
		patientID = p.ID
	})

	It("should score and store an NCD assessment", func() {
		a, err := service.RecordNCD(ctx, patientID, assessment.RecordNCDDTO{
			Smoking:       true,
			BloodPressure: "150/95",
			WeightKg:      81,
			HeightCm:      160,
			Notes:         "quit smoking counselling given",
		}, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.RiskFactorCount).To(Equal(3))
		Expect(a.RiskLevel).To(Equal(assessment.RiskModerate))

		var raw struct {
			Notes string `gorm:"column:encrypted_notes"`
		}
		Expect(db.Table("ncd_assessments").Where("id = ?", a.ID).Take(&raw).Error).To(Succeed())
		Expect(fieldcrypt.IsCiphertext(raw.Notes)).To(BeTrue())

		loaded, err := service.GetNCD(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Notes).To(Equal("quit smoking counselling given"))
		Expect(loaded.BMI).To(Equal(31.6))
	})

	It("should encrypt HEEADSSS notes and flag referrals", func() {
		h, err := service.RecordHEEADSSS(ctx, patientID, assessment.RecordHEEADSSSDTO{
			Home:    assessment.Domain{Note: "lives with grandmother"},
			Suicide: assessment.Domain{Note: "reports low mood for weeks", Concern: true},
		}, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.ReferralNeeded).To(BeTrue())

		var raw struct {
			Suicide string `gorm:"column:encrypted_suicide_note"`
			Safety  string `gorm:"column:encrypted_safety_note"`
		}
		Expect(db.Table("heeadsss_assessments").Where("id = ?", h.ID).Take(&raw).Error).To(Succeed())
		Expect(fieldcrypt.IsCiphertext(raw.Suicide)).To(BeTrue())
		Expect(raw.Safety).To(BeEmpty())

		list, err := service.ListHEEADSSS(ctx, patientID)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Suicide.Note).To(Equal("reports low mood for weeks"))
		Expect(list[0].Home.Concern).To(BeFalse())
	})

	It("should refuse archived patients and report unknown assessments", func() {
		_, err := patients.Archive(ctx, patientID)
		Expect(err).NotTo(HaveOccurred())
		_, err = service.RecordNCD(ctx, patientID, assessment.RecordNCDDTO{Smoking: true}, 4)
		Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())

		_, err = service.GetHEEADSSS(ctx, 99)
		Expect(errors.Is(err, internal.ErrAssessmentNotFound)).To(BeTrue())
	})
})
