package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/dbtest"
	"github.com/frahmantamala/clinic-management/internal/core/fieldcrypt"
	"github.com/frahmantamala/clinic-management/internal/patient"
	patientPostgres "github.com/frahmantamala/clinic-management/internal/patient/postgres"
	"github.com/frahmantamala/clinic-management/internal/vitalsign"
	vitalsignPostgres "github.com/frahmantamala/clinic-management/internal/vitalsign/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestVitalSignPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "VitalSign Postgres Suite")
}

var _ = Describe("VitalSign service over SQLite", func() {
	var (
		db        *gorm.DB
		patients  *patient.Service
		service   *vitalsign.Service
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
		service = vitalsign.NewService(vitalsignPostgres.NewVitalSignRepository(db), patients, log)

		p, err := patients.Register(ctx, patient.CreatePatientDTO{FirstName: "Rosa", LastName: "Lim", BirthDate: "1970-02-02", Sex: "female"}, 1)
		Expect(err).NotTo(HaveOccurred())
		patientID = p.ID
	})

	It("should store every measurement encrypted", func() {
		v, err := service.Record(ctx, patientID, vitalsign.RecordVitalSignDTO{BloodPressure: "150/95", Temperature: 36.5, WeightKg: 81, HeightCm: 160}, 2)
		Expect(err).NotTo(HaveOccurred())

		var raw struct {
			BP     string `gorm:"column:encrypted_blood_pressure"`
			Weight string `gorm:"column:encrypted_weight"`
			Pulse  string `gorm:"column:encrypted_pulse_rate"`
		}
		Expect(db.Table("vital_signs").Where("id = ?", v.ID).Take(&raw).Error).To(Succeed())
		Expect(fieldcrypt.IsCiphertext(raw.BP)).To(BeTrue())
		Expect(fieldcrypt.IsCiphertext(raw.Weight)).To(BeTrue())
		Expect(raw.Pulse).To(BeEmpty())

		loaded, err := service.Get(ctx, v.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.BloodPressure()).To(Equal("150/95"))
		Expect(loaded.BMI()).To(Equal(31.6))
		Expect(loaded.RecordedBy).To(Equal(int64(2)))
	})

	It("should list newest first", func() {
		older := time.Now().Add(-48 * time.Hour)
		_, err := service.Record(ctx, patientID, vitalsign.RecordVitalSignDTO{PulseRate: 60, RecordedAt: &older}, 2)
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Record(ctx, patientID, vitalsign.RecordVitalSignDTO{PulseRate: 90}, 2)
		Expect(err).NotTo(HaveOccurred())

		list, err := service.ListByPatient(ctx, patientID, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[0].PulseRate).To(Equal(90))
	})

	It("should refuse unknown and archived patients", func() {
		_, err := service.Record(ctx, 999, vitalsign.RecordVitalSignDTO{PulseRate: 70}, 2)
		Expect(errors.Is(err, internal.ErrPatientNotFound)).To(BeTrue())

		_, err = patients.Archive(ctx, patientID)
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Record(ctx, patientID, vitalsign.RecordVitalSignDTO{PulseRate: 70}, 2)
		Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())
	})
})
