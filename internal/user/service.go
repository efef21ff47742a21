package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/auth"
	userDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/user"
	"github.com/frahmantamala/clinic-management/internal/permission"
)

type RepositoryAPI interface {
	// GetByID and GetByEmail return nil, nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	List(ctx context.Context, limit, offset int) ([]*userDatamodel.User, int64, error)
	// Create inserts the user and links the given roles in one transaction.
	Create(ctx context.Context, u *userDatamodel.User, roleIDs []int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	RoleNames(ctx context.Context, userID int64) ([]string, error)

	ListRoles(ctx context.Context) ([]*userDatamodel.Role, error)
	GetRoleByID(ctx context.Context, id int64) (*userDatamodel.Role, error)
	GetRoleByName(ctx context.Context, name string) (*userDatamodel.Role, error)
	CreateRole(ctx context.Context, r *userDatamodel.Role) error
	AssignRole(ctx context.Context, userID, roleID int64) (bool, error)
	RemoveRole(ctx context.Context, userID, roleID int64) (bool, error)
}

type PermissionResolver interface {
	GetUserPermissions(ctx context.Context, userID int64) (permission.Set, error)
}

type Service struct {
	repo       RepositoryAPI
	resolver   PermissionResolver
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, resolver PermissionResolver, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, bcryptCost: bcryptCost, logger: logger}
}

// GetProfile returns the account with its roles and effective permissions.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	perms, err := s.resolver.GetUserPermissions(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve permissions for profile", "user_id", userID, "error", err)
		perms = permission.NewSet()
	}
	u.Permissions = perms.Names()
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	return s.get(ctx, userID)
}

func (s *Service) get(ctx context.Context, userID int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	u := FromDataModel(row)
	roles, err := s.repo.RoleNames(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user roles", err)
	}
	if roles != nil {
		u.Roles = roles
	}
	return u, nil
}

func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("email is already registered", internal.ErrCodeDuplicate)
	}

	roleIDs := make([]int64, 0, len(dto.Roles))
	for _, name := range dto.Roles {
		role, err := s.repo.GetRoleByName(ctx, name)
		if err != nil {
			return nil, internal.NewInternalError("failed to load role", err)
		}
		if role == nil {
			return nil, internal.ErrRoleNotFound.WithDetails(map[string]string{"role": name})
		}
		roleIDs = append(roleIDs, role.ID)
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, row, roleIDs); err != nil {
		s.logger.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", row.ID, "roles", dto.Roles)
	return s.get(ctx, row.ID)
}

// ListUsers clamps limit to 1..100.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list users", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		u := FromDataModel(row)
		roles, err := s.repo.RoleNames(ctx, row.ID)
		if err != nil {
			return nil, 0, internal.NewInternalError("failed to load user roles", err)
		}
		if roles != nil {
			u.Roles = roles
		}
		users = append(users, u)
	}
	return users, total, nil
}

// SetActive enables or disables an account. A disabled account keeps its
// grants but resolves to no permissions.
func (s *Service) SetActive(ctx context.Context, userID int64, active bool) (*User, error) {
	if _, err := s.get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}
	s.logger.InfoContext(ctx, "user active flag changed", "user_id", userID, "is_active", active)
	return s.get(ctx, userID)
}

func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	rows, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	roles := make([]*Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, RoleFromDataModel(row))
	}
	return roles, nil
}

func (s *Service) CreateRole(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	existing, err := s.repo.GetRoleByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check role", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("role already exists", internal.ErrCodeDuplicate)
	}
	row := RoleToDataModel(&Role{Name: dto.Name, Description: dto.Description})
	if err := s.repo.CreateRole(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to create role", err)
	}
	s.logger.InfoContext(ctx, "role created", "role_id", row.ID, "name", row.Name)
	return RoleFromDataModel(row), nil
}

func (s *Service) AssignRole(ctx context.Context, userID, roleID int64) (bool, error) {
	if err := s.requireUserAndRole(ctx, userID, roleID); err != nil {
		return false, err
	}
	changed, err := s.repo.AssignRole(ctx, userID, roleID)
	if err != nil {
		return false, internal.NewInternalError("failed to assign role", err)
	}
	if changed {
		s.logger.InfoContext(ctx, "role assigned", "user_id", userID, "role_id", roleID)
	}
	return changed, nil
}

func (s *Service) RemoveRole(ctx context.Context, userID, roleID int64) (bool, error) {
	if err := s.requireUserAndRole(ctx, userID, roleID); err != nil {
		return false, err
	}
	changed, err := s.repo.RemoveRole(ctx, userID, roleID)
	if err != nil {
		return false, internal.NewInternalError("failed to remove role", err)
	}
	if changed {
		s.logger.InfoContext(ctx, "role removed", "user_id", userID, "role_id", roleID)
	}
	return changed, nil
}

func (s *Service) requireUserAndRole(ctx context.Context, userID, roleID int64) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return internal.ErrUserNotFound
	}
	r, err := s.repo.GetRoleByID(ctx, roleID)
	if err != nil {
		return internal.NewInternalError("failed to load role", err)
	}
	if r == nil {
		return internal.ErrRoleNotFound
	}
	return nil
}
