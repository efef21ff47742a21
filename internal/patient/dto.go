package patient

import (
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/common/validation"
)

var (
	philHealthPattern = regexp.MustCompile(`^\d{2}-\d{9}-\d$`)
	contactPattern    = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)
)

type CreatePatientDTO struct {
	FirstName        string `json:"first_name"`
	MiddleName       string `json:"middle_name"`
	LastName         string `json:"last_name"`
	BirthDate        string `json:"birth_date"`
	Sex              string `json:"sex"`
	CivilStatus      string `json:"civil_status"`
	Address          string `json:"address"`
	ContactNumber    string `json:"contact_number"`
	PhilHealthNumber string `json:"philhealth_number"`
}

func (d *CreatePatientDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.MiddleName = strings.TrimSpace(d.MiddleName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.BirthDate = strings.TrimSpace(d.BirthDate)
	d.Sex = strings.ToLower(strings.TrimSpace(d.Sex))
	d.CivilStatus = strings.ToLower(strings.TrimSpace(d.CivilStatus))
	d.Address = strings.TrimSpace(d.Address)
	d.ContactNumber = strings.TrimSpace(d.ContactNumber)
	d.PhilHealthNumber = strings.TrimSpace(d.PhilHealthNumber)
}

// Validate checks the DTO and returns the parsed birth date.
func (d CreatePatientDTO) Validate() (time.Time, *internal.AppError) {
	birth, dateErr := parseBirthDate(d.BirthDate)

	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("middle_name", d.MiddleName).MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("birth_date", d.BirthDate).Required().Custom(func(interface{}) *internal.AppError { return dateErr })
	v.Field("birth_date", birth).NotFuture()
	v.Field("sex", d.Sex).Required().OneOf(SexMale, SexFemale)
	v.Field("civil_status", d.CivilStatus).OneOf(CivilStatusSingle, CivilStatusMarried, CivilStatusWidowed, CivilStatusSeparated)
	v.Field("address", d.Address).MaxLength(255)
	v.Field("contact_number", d.ContactNumber).Matches(contactPattern, "must be a phone number")
	v.Field("philhealth_number", d.PhilHealthNumber).Matches(philHealthPattern, "must look like 12-345678901-2")
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, appErr
	}
	return birth, nil
}

func parseBirthDate(s string) (time.Time, *internal.AppError) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError("birth_date", "birth_date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	return t, nil
}

// UpdatePatientDTO changes only the fields that are present.
type UpdatePatientDTO struct {
	FirstName        *string `json:"first_name,omitempty"`
	MiddleName       *string `json:"middle_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	CivilStatus      *string `json:"civil_status,omitempty"`
	Address          *string `json:"address,omitempty"`
	ContactNumber    *string `json:"contact_number,omitempty"`
	PhilHealthNumber *string `json:"philhealth_number,omitempty"`
}

// Apply validates the fields present in d and writes them into p. Fields
// left out are not checked, so a record whose stored name could not be
// decrypted can still have its other fields changed.
func (d UpdatePatientDTO) Apply(p *Patient) *internal.AppError {
	trim := func(src *string) *string {
		if src == nil {
			return nil
		}
		t := strings.TrimSpace(*src)
		return &t
	}
	first, middle, last := trim(d.FirstName), trim(d.MiddleName), trim(d.LastName)
	civil, address := trim(d.CivilStatus), trim(d.Address)
	contact, philHealth := trim(d.ContactNumber), trim(d.PhilHealthNumber)
	if civil != nil {
		*civil = strings.ToLower(*civil)
	}

	v := validation.NewValidator()
	if first != nil {
		v.Field("first_name", *first).Required().MaxLength(100)
	}
	if middle != nil {
		v.Field("middle_name", *middle).MaxLength(100)
	}
	if last != nil {
		v.Field("last_name", *last).Required().MaxLength(100)
	}
	if civil != nil {
		v.Field("civil_status", *civil).OneOf(CivilStatusSingle, CivilStatusMarried, CivilStatusWidowed, CivilStatusSeparated)
	}
	if address != nil {
		v.Field("address", *address).MaxLength(255)
	}
	if contact != nil {
		v.Field("contact_number", *contact).Matches(contactPattern, "must be a phone number")
	}
	if philHealth != nil {
		v.Field("philhealth_number", *philHealth).Matches(philHealthPattern, "must look like 12-345678901-2")
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.FirstName, first)
	set(&p.MiddleName, middle)
	set(&p.LastName, last)
	set(&p.CivilStatus, civil)
	set(&p.Address, address)
	set(&p.ContactNumber, contact)
	set(&p.PhilHealthNumber, philHealth)
	return nil
}

// Columns names the encrypted or plain columns the update touches. Only
// these are written, so a field that failed to decrypt on load is never
// overwritten with its blank placeholder.
func (d UpdatePatientDTO) Columns() []string {
	var cols []string
	add := func(v *string, col string) {
		if v != nil {
			cols = append(cols, col)
		}
	}
	add(d.FirstName, "encrypted_first_name")
	add(d.MiddleName, "encrypted_middle_name")
	add(d.LastName, "encrypted_last_name")
	add(d.CivilStatus, "civil_status")
	add(d.Address, "encrypted_address")
	add(d.ContactNumber, "encrypted_contact_number")
	add(d.PhilHealthNumber, "encrypted_philhealth_number")
	return cols
}

type ListPatientsResponse struct {
	Patients []*Patient `json:"patients"`
	Total    int64      `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
