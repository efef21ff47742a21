package patient_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/frahmantamala/clinic-management/internal/patient"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPatient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Patient Suite")
}

var _ = Describe("Patient", func() {
	It("should generate record numbers with the year and eight hex digits", func() {
		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		a := patient.NewRecordNumber(now)
		b := patient.NewRecordNumber(now)
		Expect(a).To(MatchRegexp(`^PT-2026-[0-9A-F]{8}$`))
		Expect(a).NotTo(Equal(b))
	})

	It("should join names without empty parts", func() {
		p := &patient.Patient{FirstName: "Juan", LastName: "Dela Cruz"}
		Expect(p.FullName()).To(Equal("Juan Dela Cruz"))
		p.MiddleName = "Santos"
		Expect(p.FullName()).To(Equal("Juan Santos Dela Cruz"))
	})

	It("should compute completed years", func() {
		p := &patient.Patient{BirthDate: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)}
		Expect(p.AgeAt(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC))).To(Equal(25))
		Expect(p.AgeAt(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))).To(Equal(26))
	})

	It("should not shift birthdays across leap years", func() {
		p := &patient.Patient{BirthDate: time.Date(2001, 3, 1, 0, 0, 0, 0, time.UTC)}
		Expect(p.AgeAt(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))).To(Equal(22))
		Expect(p.AgeAt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))).To(Equal(23))

		leapling := &patient.Patient{BirthDate: time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)}
		Expect(leapling.AgeAt(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))).To(Equal(24))
		Expect(leapling.AgeAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))).To(Equal(25))
		Expect(leapling.AgeAt(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))).To(Equal(0))
	})
})

var _ = Describe("CreatePatientDTO", func() {
	valid := func() patient.CreatePatientDTO {
		return patient.CreatePatientDTO{
			FirstName: "Juan", LastName: "Dela Cruz", BirthDate: "1990-01-31", Sex: "Male",
			CivilStatus: "single", ContactNumber: "+63 917 123 4567", PhilHealthNumber: "12-345678901-2",
		}
	}

	It("should accept a complete registration", func() {
		dto := valid()
		dto.Normalize()
		birth, appErr := dto.Validate()
		Expect(appErr).To(BeNil())
		Expect(birth.Year()).To(Equal(1990))
		Expect(dto.Sex).To(Equal(patient.SexMale))
	})

	DescribeTable("should reject",
		func(mutate func(*patient.CreatePatientDTO), field string) {
			dto := valid()
			mutate(&dto)
			dto.Normalize()
			_, appErr := dto.Validate()
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.Error()).To(MatchRegexp(regexp.QuoteMeta(field)))
		},
		Entry("missing first name", func(d *patient.CreatePatientDTO) { d.FirstName = " " }, "first_name"),
		Entry("bad date", func(d *patient.CreatePatientDTO) { d.BirthDate = "31/01/1990" }, "birth_date"),
		Entry("future birth", func(d *patient.CreatePatientDTO) { d.BirthDate = "2999-01-01" }, "birth_date"),
		Entry("unknown sex", func(d *patient.CreatePatientDTO) { d.Sex = "x" }, "sex"),
		Entry("civil status", func(d *patient.CreatePatientDTO) { d.CivilStatus = "complicated" }, "civil_status"),
		Entry("philhealth format", func(d *patient.CreatePatientDTO) { d.PhilHealthNumber = "123" }, "philhealth_number"),
	)
})

var _ = Describe("UpdatePatientDTO", func() {
	ptr := func(s string) *string { return &s }

	It("should check only the fields it carries", func() {
		p := &patient.Patient{FirstName: "", LastName: "Reyes"}
		dto := patient.UpdatePatientDTO{Address: ptr("  Purok 5 ")}

		Expect(dto.Apply(p)).To(BeNil())
		Expect(p.Address).To(Equal("Purok 5"))
		Expect(p.FirstName).To(BeEmpty())
		Expect(dto.Columns()).To(Equal([]string{"encrypted_address"}))
	})

	It("should refuse blanking a name it carries", func() {
		p := &patient.Patient{FirstName: "Liza", LastName: "Reyes"}
		appErr := patient.UpdatePatientDTO{FirstName: ptr(" ")}.Apply(p)

		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Error()).To(ContainSubstring("first_name"))
		Expect(p.FirstName).To(Equal("Liza"))
	})

	It("should lower-case civil status and map columns", func() {
		p := &patient.Patient{FirstName: "Liza", LastName: "Reyes"}
		dto := patient.UpdatePatientDTO{CivilStatus: ptr("Married"), ContactNumber: ptr("09171234567")}

		Expect(dto.Apply(p)).To(BeNil())
		Expect(p.CivilStatus).To(Equal(patient.CivilStatusMarried))
		Expect(dto.Columns()).To(ConsistOf("civil_status", "encrypted_contact_number"))
	})
})
