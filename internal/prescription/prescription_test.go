package prescription_test

import (
	"testing"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/prescription"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPrescription(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Prescription Suite")
}

var _ = Describe("Status", func() {
	DescribeTable("CanTransitionTo",
		func(from, to prescription.Status, allowed bool) {
			Expect(from.CanTransitionTo(to)).To(Equal(allowed))
		},
		Entry("active to dispensed", prescription.StatusActive, prescription.StatusDispensed, true),
		Entry("active to cancelled", prescription.StatusActive, prescription.StatusCancelled, true),
		Entry("dispensed to cancelled", prescription.StatusDispensed, prescription.StatusCancelled, false),
		Entry("cancelled to dispensed", prescription.StatusCancelled, prescription.StatusDispensed, false),
		Entry("active to active", prescription.StatusActive, prescription.StatusActive, false),
	)
})

var _ = Describe("CreatePrescriptionDTO", func() {
	It("should require patient, medication and dosage", func() {
		dto := prescription.CreatePrescriptionDTO{Medication: "  "}
		dto.Normalize()
		appErr := dto.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		Expect(appErr.GetDetailedMessage()).To(ContainSubstring("medication is required"))
	})

	It("should accept a complete prescription", func() {
		dto := prescription.CreatePrescriptionDTO{PatientID: 1, Medication: " Amlodipine ", Dosage: "5 mg", Frequency: "once daily"}
		dto.Normalize()
		Expect(dto.Medication).To(Equal("Amlodipine"))
		Expect(dto.Validate()).To(BeNil())
	})
})
