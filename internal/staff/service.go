package staff

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/clinic-management/internal"
	staffDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/staff"
)

// RepositoryAPI getters return nil, nil when nothing matches.
type RepositoryAPI interface {
	ListPositions(ctx context.Context) ([]*staffDatamodel.StaffPosition, error)
	GetPositionByID(ctx context.Context, id int64) (*staffDatamodel.StaffPosition, error)
	GetPositionByName(ctx context.Context, name string) (*staffDatamodel.StaffPosition, error)
	CreatePosition(ctx context.Context, p *staffDatamodel.StaffPosition) error

	List(ctx context.Context, activeOnly bool) ([]*staffDatamodel.Staff, error)
	GetByID(ctx context.Context, id int64) (*staffDatamodel.Staff, error)
	GetByUserID(ctx context.Context, userID int64) (*staffDatamodel.Staff, error)
	Create(ctx context.Context, s *staffDatamodel.Staff) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListPositions(ctx context.Context) ([]*Position, error) {
	rows, err := s.repo.ListPositions(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list positions", err)
	}
	out := make([]*Position, 0, len(rows))
	for _, row := range rows {
		out = append(out, PositionFromDataModel(row))
	}
	return out, nil
}

func (s *Service) CreatePosition(ctx context.Context, dto CreatePositionDTO) (*Position, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	existing, err := s.repo.GetPositionByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check position", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("position already exists", internal.ErrCodeDuplicate)
	}
	row := &staffDatamodel.StaffPosition{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreatePosition(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to create position", err)
	}
	s.logger.InfoContext(ctx, "staff position created", "position_id", row.ID)
	return PositionFromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Staff, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, internal.NewInternalError("failed to list staff", err)
	}
	out := make([]*Staff, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Staff, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load staff", err)
	}
	if row == nil {
		return nil, internal.ErrStaffNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateStaffDTO) (*Staff, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if dto.PositionID != nil {
		if err := s.requirePosition(ctx, *dto.PositionID); err != nil {
			return nil, err
		}
	}
	if dto.UserID != nil {
		if err := s.requireLinkableUser(ctx, *dto.UserID, 0); err != nil {
			return nil, err
		}
	}

	row := ToDataModel(&Staff{
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		LicenseNumber: dto.LicenseNumber,
		PositionID:    dto.PositionID,
		UserID:        dto.UserID,
		IsActive:      true,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to create staff", err)
	}
	s.logger.InfoContext(ctx, "staff record created", "staff_id", row.ID)
	return FromDataModel(row), nil
}

func (s *Service) AssignPosition(ctx context.Context, staffID, positionID int64) (*Staff, error) {
	if _, err := s.Get(ctx, staffID); err != nil {
		return nil, err
	}
	if err := s.requirePosition(ctx, positionID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, staffID, map[string]interface{}{"staff_position_id": positionID}); err != nil {
		return nil, internal.NewInternalError("failed to assign position", err)
	}
	s.logger.InfoContext(ctx, "staff position assigned", "staff_id", staffID, "position_id", positionID)
	return s.Get(ctx, staffID)
}

// LinkAccount ties a staff record to a user account. An account can back at
// most one staff record.
func (s *Service) LinkAccount(ctx context.Context, staffID, userID int64) (*Staff, error) {
	if _, err := s.Get(ctx, staffID); err != nil {
		return nil, err
	}
	if err := s.requireLinkableUser(ctx, userID, staffID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, staffID, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, internal.NewInternalError("failed to link account", err)
	}
	s.logger.InfoContext(ctx, "staff record linked to account", "staff_id", staffID, "user_id", userID)
	return s.Get(ctx, staffID)
}

func (s *Service) SetActive(ctx context.Context, staffID int64, active bool) (*Staff, error) {
	if _, err := s.Get(ctx, staffID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, staffID, map[string]interface{}{"is_active": active}); err != nil {
		return nil, internal.NewInternalError("failed to update staff", err)
	}
	return s.Get(ctx, staffID)
}

func (s *Service) requirePosition(ctx context.Context, id int64) error {
	p, err := s.repo.GetPositionByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to load position", err)
	}
	if p == nil {
		return internal.ErrPositionNotFound
	}
	return nil
}

func (s *Service) requireLinkableUser(ctx context.Context, userID, staffID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if !exists {
		return internal.ErrUserNotFound
	}
	linked, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to check account link", err)
	}
	if linked != nil && linked.ID != staffID {
		return internal.NewConflictError("account is already linked to another staff record", internal.ErrCodeDuplicate)
	}
	return nil
}

// RequireActive is used when assigning a staff member to clinical work.
func (s *Service) RequireActive(ctx context.Context, id int64) error {
	st, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !st.IsActive {
		return internal.ErrInvalidStatus.WithDetails(map[string]string{"reason": "staff member is inactive"})
	}
	return nil
}
