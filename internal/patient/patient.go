package patient

import (
	"fmt"
	"strings"
	"time"

	patientDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/patient"
	"github.com/google/uuid"
)

const (
	SexMale   = "male"
	SexFemale = "female"

	CivilStatusSingle    = "single"
	CivilStatusMarried   = "married"
	CivilStatusWidowed   = "widowed"
	CivilStatusSeparated = "separated"

	dateLayout = "2006-01-02"
)

type Patient struct {
	ID               int64     `json:"id"`
	RecordNumber     string    `json:"record_number"`
	FirstName        string    `json:"first_name"`
	MiddleName       string    `json:"middle_name,omitempty"`
	LastName         string    `json:"last_name"`
	BirthDate        time.Time `json:"birth_date"`
	Sex              string    `json:"sex"`
	CivilStatus      string    `json:"civil_status,omitempty"`
	Address          string    `json:"address,omitempty"`
	ContactNumber    string    `json:"contact_number,omitempty"`
	PhilHealthNumber string    `json:"philhealth_number,omitempty"`
	IsArchived       bool      `json:"is_archived"`
	CreatedBy        int64     `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *Patient) FullName() string {
	parts := []string{p.FirstName, p.MiddleName, p.LastName}
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

// MaxAge bounds registration; older birth dates are treated as typos.
const MaxAge = 130

// AgeAt returns completed years at t. A February 29 birthday completes its
// year on March 1 in common years.
func (p *Patient) AgeAt(t time.Time) int {
	age := t.Year() - p.BirthDate.Year()
	if t.Month() < p.BirthDate.Month() || (t.Month() == p.BirthDate.Month() && t.Day() < p.BirthDate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// NewRecordNumber returns a clinic record number of the form PT-<year>-<8 hex>.
func NewRecordNumber(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("PT-%d-%s", now.Year(), strings.ToUpper(id[:8]))
}

func ToDataModel(p *Patient) *patientDatamodel.Patient {
	return &patientDatamodel.Patient{
		ID:               p.ID,
		RecordNumber:     p.RecordNumber,
		FirstName:        p.FirstName,
		MiddleName:       p.MiddleName,
		LastName:         p.LastName,
		BirthDate:        p.BirthDate,
		Sex:              p.Sex,
		CivilStatus:      p.CivilStatus,
		Address:          p.Address,
		ContactNumber:    p.ContactNumber,
		PhilHealthNumber: p.PhilHealthNumber,
		IsArchived:       p.IsArchived,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func FromDataModel(p *patientDatamodel.Patient) *Patient {
	return &Patient{
		ID:               p.ID,
		RecordNumber:     p.RecordNumber,
		FirstName:        p.FirstName,
		MiddleName:       p.MiddleName,
		LastName:         p.LastName,
		BirthDate:        p.BirthDate,
		Sex:              p.Sex,
		CivilStatus:      p.CivilStatus,
		Address:          p.Address,
		ContactNumber:    p.ContactNumber,
		PhilHealthNumber: p.PhilHealthNumber,
		IsArchived:       p.IsArchived,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
