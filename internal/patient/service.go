package patient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	patientDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/patient"
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *patientDatamodel.Patient) error
	UpdateColumns(ctx context.Context, p *patientDatamodel.Patient, columns []string) error
	// GetByID and GetByRecordNumber return nil, nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*patientDatamodel.Patient, error)
	GetByRecordNumber(ctx context.Context, recordNumber string) (*patientDatamodel.Patient, error)
	List(ctx context.Context, includeArchived bool, limit, offset int) ([]*patientDatamodel.Patient, int64, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Register(ctx context.Context, dto CreatePatientDTO, createdBy int64) (*Patient, error) {
	dto.Normalize()
	birth, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}

	p := &Patient{
		RecordNumber:     NewRecordNumber(s.now()),
		FirstName:        dto.FirstName,
		MiddleName:       dto.MiddleName,
		LastName:         dto.LastName,
		BirthDate:        birth,
		Sex:              dto.Sex,
		CivilStatus:      dto.CivilStatus,
		Address:          dto.Address,
		ContactNumber:    dto.ContactNumber,
		PhilHealthNumber: dto.PhilHealthNumber,
		CreatedBy:        createdBy,
	}
	if p.AgeAt(s.now()) > MaxAge {
		return nil, internal.NewValidationFieldError("birth_date", fmt.Sprintf("birth_date implies an age over %d", MaxAge), internal.ErrCodeInvalidDate)
	}
	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to register patient", "error", err)
		return nil, internal.NewInternalError("failed to register patient", err)
	}
	s.logger.InfoContext(ctx, "patient registered", "patient_id", row.ID, "record_number", row.RecordNumber)
	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load patient", err)
	}
	if row == nil {
		return nil, internal.ErrPatientNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByRecordNumber(ctx context.Context, recordNumber string) (*Patient, error) {
	row, err := s.repo.GetByRecordNumber(ctx, strings.ToUpper(strings.TrimSpace(recordNumber)))
	if err != nil {
		return nil, internal.NewInternalError("failed to load patient", err)
	}
	if row == nil {
		return nil, internal.ErrPatientNotFound
	}
	return FromDataModel(row), nil
}

// List pages through patients in registration order. Names are encrypted,
// so there is no name search.
func (s *Service) List(ctx context.Context, includeArchived bool, limit, offset int) ([]*Patient, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, total, err := s.repo.List(ctx, includeArchived, limit, offset)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list patients", err)
	}
	out := make([]*Patient, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

// Update writes only the columns present in dto. Each of them is sealed again
// under the active key; columns left out keep their stored ciphertext.
func (s *Service) Update(ctx context.Context, id int64, dto UpdatePatientDTO) (*Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsArchived {
		return nil, internal.ErrInvalidStatus.WithDetails(map[string]string{"reason": "patient is archived"})
	}
	if appErr := dto.Apply(p); appErr != nil {
		return nil, appErr
	}
	columns := dto.Columns()
	if len(columns) == 0 {
		return p, nil
	}
	row := ToDataModel(p)
	if err := s.repo.UpdateColumns(ctx, row, columns); err != nil {
		return nil, internal.NewInternalError("failed to update patient", err)
	}
	s.logger.InfoContext(ctx, "patient updated", "patient_id", id)
	return FromDataModel(row), nil
}

// Archive hides a patient from default listings. Records are never deleted.
func (s *Service) Archive(ctx context.Context, id int64) (*Patient, error) {
	return s.setArchived(ctx, id, true)
}

func (s *Service) Restore(ctx context.Context, id int64) (*Patient, error) {
	return s.setArchived(ctx, id, false)
}

func (s *Service) setArchived(ctx context.Context, id int64, archived bool) (*Patient, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		return nil, internal.NewInternalError("failed to archive patient", err)
	}
	s.logger.InfoContext(ctx, "patient archive flag changed", "patient_id", id, "archived", archived)
	return s.Get(ctx, id)
}

// RequireActive is used by the clinical modules before attaching records to
// a patient.
func (s *Service) RequireActive(ctx context.Context, id int64) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.IsArchived {
		return internal.ErrInvalidStatus.WithDetails(map[string]string{"reason": "patient is archived"})
	}
	return nil
}
