package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/dbtest"
	"github.com/frahmantamala/clinic-management/internal/patient"
	patientPostgres "github.com/frahmantamala/clinic-management/internal/patient/postgres"
	"github.com/frahmantamala/clinic-management/internal/prescription"
	prescriptionPostgres "github.com/frahmantamala/clinic-management/internal/prescription/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPrescriptionPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Prescription Postgres Suite")
}

var _ = Describe("Prescription service over SQLite", func() {
	var (
		patients  *patient.Service
		service   *prescription.Service
		ctx       context.Context
		patientID int64
	)

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		log := slog.New(slog.NewTextHandler(io.Discard, nil))

		patients = patient.NewService(patientPostgres.NewPatientRepository(db), log)
		service = prescription.NewService(prescriptionPostgres.NewPrescriptionRepository(db), patients, log)

		p, err := patients.Register(ctx, patient.CreatePatientDTO{FirstName: "Jose", LastName: "Rizal", BirthDate: "1961-06-19", Sex: "male"}, 1)
		Expect(err).NotTo(HaveOccurred())
		patientID = p.ID
	})

	prescribe := func(medication string) *prescription.Prescription {
		p, err := service.Create(ctx, prescription.CreatePrescriptionDTO{PatientID: patientID, Medication: medication, Dosage: "500 mg"}, 3)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	It("should create active prescriptions for the prescriber", func() {
		p := prescribe("Metformin")
		Expect(p.Status).To(Equal(prescription.StatusActive))
		Expect(p.PrescribedBy).To(Equal(int64(3)))
		Expect(p.DispensedAt).To(BeNil())
	})

	It("should dispense once and record the dispenser", func() {
		p := prescribe("Metformin")
		dispensed, err := service.Dispense(ctx, p.ID, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(dispensed.Status).To(Equal(prescription.StatusDispensed))
		Expect(*dispensed.DispensedBy).To(Equal(int64(8)))
		Expect(dispensed.DispensedAt).NotTo(BeNil())

		_, err = service.Dispense(ctx, p.ID, 8)
		Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())
		_, err = service.Cancel(ctx, p.ID)
		Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())
	})

	It("should not dispense a cancelled prescription", func() {
		p := prescribe("Losartan")
		_, err := service.Cancel(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Dispense(ctx, p.ID, 8)
		Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())
	})

	It("should filter by patient and status", func() {
		prescribe("Metformin")
		second := prescribe("Losartan")
		_, err := service.Cancel(ctx, second.ID)
		Expect(err).NotTo(HaveOccurred())

		list, total, err := service.List(ctx, prescription.Filter{PatientID: patientID, Status: prescription.StatusActive})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(list[0].Medication).To(Equal("Metformin"))

		_, _, err = service.List(ctx, prescription.Filter{Status: "expired"})
		Expect(err).To(HaveOccurred())
	})

	It("should refuse archived patients and unknown prescriptions", func() {
		_, err := patients.Archive(ctx, patientID)
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, prescription.CreatePrescriptionDTO{PatientID: patientID, Medication: "Aspirin", Dosage: "80 mg"}, 3)
		Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())

		_, err = service.Get(ctx, 404)
		Expect(errors.Is(err, internal.ErrPrescriptionNotFound)).To(BeTrue())
	})
})
