package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/dbtest"
	"github.com/frahmantamala/clinic-management/internal/core/fieldcrypt"
	"github.com/frahmantamala/clinic-management/internal/patient"
	patientPostgres "github.com/frahmantamala/clinic-management/internal/patient/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestPatientPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Patient Postgres Suite")
}

var _ = Describe("Patient service over SQLite", func() {
	var (
		db      *gorm.DB
		service *patient.Service
		ctx     context.Context
	)

	register := func(first string) *patient.Patient {
		p, err := service.Register(ctx, patient.CreatePatientDTO{
			FirstName: first, LastName: "Reyes", BirthDate: "1985-04-12", Sex: "female",
			Address: "Purok 3, Brgy. San Isidro", ContactNumber: "09171234567",
		}, 1)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		service = patient.NewService(patientPostgres.NewPatientRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should encrypt every PHI column at rest", func() {
		p := register("Liza")

		var raw struct {
			First   string `gorm:"column:encrypted_first_name"`
			Address string `gorm:"column:encrypted_address"`
			Contact string `gorm:"column:encrypted_contact_number"`
			Middle  string `gorm:"column:encrypted_middle_name"`
		}
		Expect(db.Table("patients").Where("id = ?", p.ID).Take(&raw).Error).To(Succeed())
		Expect(fieldcrypt.IsCiphertext(raw.First)).To(BeTrue())
		Expect(fieldcrypt.IsCiphertext(raw.Address)).To(BeTrue())
		Expect(fieldcrypt.IsCiphertext(raw.Contact)).To(BeTrue())
		Expect(raw.Middle).To(BeEmpty())

		loaded, err := service.Get(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.FirstName).To(Equal("Liza"))
		Expect(loaded.Address).To(Equal("Purok 3, Brgy. San Isidro"))
	})

	It("should read legacy plaintext rows unchanged", func() {
		p := register("Liza")
		Expect(db.Exec("UPDATE patients SET encrypted_first_name = ? WHERE id = ?", "Legacy", p.ID).Error).To(Succeed())

		loaded, err := service.Get(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.FirstName).To(Equal("Legacy"))
	})

	It("should blank one undecryptable field and keep the rest", func() {
		p := register("Liza")
		Expect(db.Exec("UPDATE patients SET encrypted_address = ? WHERE id = ?", "enc:v9:AAAA", p.ID).Error).To(Succeed())

		loaded, err := service.Get(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Address).To(BeEmpty())
		Expect(loaded.FirstName).To(Equal("Liza"))
		Expect(loaded.ContactNumber).To(Equal("09171234567"))
	})

	It("should look up by record number case-insensitively", func() {
		p := register("Liza")
		found, err := service.GetByRecordNumber(ctx, " "+p.RecordNumber+" ")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(p.ID))

		_, err = service.GetByRecordNumber(ctx, "PT-1999-00000000")
		Expect(errors.Is(err, internal.ErrPatientNotFound)).To(BeTrue())
	})

	It("should update only supplied fields and re-encrypt", func() {
		p := register("Liza")
		addr := "Sitio Malinis"
		updated, err := service.Update(ctx, p.ID, patient.UpdatePatientDTO{Address: &addr})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Address).To(Equal("Sitio Malinis"))
		Expect(updated.FirstName).To(Equal("Liza"))

		loaded, err := service.Get(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Address).To(Equal("Sitio Malinis"))
	})

	It("should refuse birth dates older than the maximum age", func() {
		_, err := service.Register(ctx, patient.CreatePatientDTO{
			FirstName: "Old", LastName: "Record", BirthDate: "1850-01-01", Sex: "male",
		}, 1)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		Expect(appErr.GetDetailedMessage()).To(ContainSubstring("birth_date"))
	})

	It("should update other fields when a stored name cannot be decrypted", func() {
		p := register("Liza")
		Expect(db.Table("patients").Where("id = ?", p.ID).Update("encrypted_first_name", "enc:v9:AAAAAAAAAAAAAAAA").Error).To(Succeed())

		addr := "Sitio Bagong Silang"
		updated, err := service.Update(ctx, p.ID, patient.UpdatePatientDTO{Address: &addr})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Address).To(Equal(addr))

		var raw struct {
			First string `gorm:"column:encrypted_first_name"`
		}
		Expect(db.Table("patients").Where("id = ?", p.ID).Take(&raw).Error).To(Succeed())
		Expect(raw.First).To(Equal("enc:v9:AAAAAAAAAAAAAAAA"))
	})

	It("should leave columns it did not change untouched", func() {
		p := register("Liza")
		const unreadable = "enc:v9:AAAAAAAAAAAAAAAA"
		Expect(db.Table("patients").Where("id = ?", p.ID).Update("encrypted_middle_name", unreadable).Error).To(Succeed())

		loaded, err := service.Get(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.MiddleName).To(BeEmpty())

		contact := "09181234567"
		_, err = service.Update(ctx, p.ID, patient.UpdatePatientDTO{ContactNumber: &contact})
		Expect(err).NotTo(HaveOccurred())

		var raw struct {
			Middle string `gorm:"column:encrypted_middle_name"`
		}
		Expect(db.Table("patients").Where("id = ?", p.ID).Take(&raw).Error).To(Succeed())
		Expect(raw.Middle).To(Equal(unreadable))
	})

	It("should archive instead of deleting and hide archived patients by default", func() {
		a := register("A")
		register("B")
		_, err := service.Archive(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())

		visible, total, err := service.List(ctx, false, 10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(visible[0].FirstName).To(Equal("B"))

		_, total, err = service.List(ctx, true, 10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(2)))

		Expect(errors.Is(service.RequireActive(ctx, a.ID), internal.ErrInvalidStatus)).To(BeTrue())
		name := "C"
		_, err = service.Update(ctx, a.ID, patient.UpdatePatientDTO{FirstName: &name})
		Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())

		_, err = service.Restore(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(service.RequireActive(ctx, a.ID)).To(Succeed())
	})
})
