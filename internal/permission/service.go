package permission

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/clinic-management/internal"
	permissionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/permission"
	"github.com/frahmantamala/clinic-management/internal/core/events"
)

type RepositoryAPI interface {
	GrantReader

	ListPermissions(ctx context.Context) ([]*permissionDatamodel.Permission, error)
	GetPermissionByName(ctx context.Context, name string) (*permissionDatamodel.Permission, error)
	UpsertPermission(ctx context.Context, p *permissionDatamodel.Permission) error
	SubjectExists(ctx context.Context, subject Subject, id int64) (bool, error)
	// Grant returns true when a new row was written.
	Grant(ctx context.Context, subject Subject, subjectID, permissionID int64, grantedBy *int64) (bool, error)
	// Revoke returns true when a row was removed.
	Revoke(ctx context.Context, subject Subject, subjectID, permissionID int64) (bool, error)
	ListGrantNames(ctx context.Context, subject Subject, subjectID int64) ([]string, error)
}

type Service struct {
	repo   RepositoryAPI
	bus    events.Publisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) ListCatalog(ctx context.Context) ([]Definition, error) {
	rows, err := s.repo.ListPermissions(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list permissions", "error", err)
		return nil, internal.NewInternalError("failed to list permissions", err)
	}
	defs := make([]Definition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, FromDataModel(row))
	}
	return defs, nil
}

// SyncCatalog makes sure every catalog entry exists in storage with its
// current description and category.
func (s *Service) SyncCatalog(ctx context.Context) error {
	for _, d := range Catalog() {
		if err := s.repo.UpsertPermission(ctx, ToDataModel(d)); err != nil {
			return internal.NewInternalError("failed to sync permission "+string(d.Name), err)
		}
	}
	s.logger.InfoContext(ctx, "permission catalog synced", "count", len(catalog))
	return nil
}

// Grant attaches a permission to a subject. Granting twice is a no-op.
func (s *Service) Grant(ctx context.Context, subject Subject, subjectID int64, name string, actorID int64) (bool, error) {
	permID, p, err := s.prepare(ctx, subject, subjectID, name)
	if err != nil {
		return false, err
	}

	var grantedBy *int64
	if actorID > 0 {
		grantedBy = &actorID
	}
	changed, err := s.repo.Grant(ctx, subject, subjectID, permID, grantedBy)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to grant permission",
			"subject", subject, "subject_id", subjectID, "permission", p, "error", err)
		return false, internal.NewInternalError("failed to grant permission", err)
	}

	s.publish(ctx, events.NewPermissionGrantedEvent(string(subject), subjectID, string(p), actorID, changed))
	return changed, nil
}

// Revoke removes a direct grant. Revoking a missing grant is a no-op; other
// paths granting the same permission are untouched.
func (s *Service) Revoke(ctx context.Context, subject Subject, subjectID int64, name string, actorID int64) (bool, error) {
	permID, p, err := s.prepare(ctx, subject, subjectID, name)
	if err != nil {
		return false, err
	}

	changed, err := s.repo.Revoke(ctx, subject, subjectID, permID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke permission",
			"subject", subject, "subject_id", subjectID, "permission", p, "error", err)
		return false, internal.NewInternalError("failed to revoke permission", err)
	}

	s.publish(ctx, events.NewPermissionRevokedEvent(string(subject), subjectID, string(p), actorID, changed))
	return changed, nil
}

func (s *Service) ListGrants(ctx context.Context, subject Subject, subjectID int64) (Set, error) {
	if err := s.requireSubject(ctx, subject, subjectID); err != nil {
		return nil, err
	}
	names, err := s.repo.ListGrantNames(ctx, subject, subjectID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list grants", err)
	}
	set := NewSet()
	for _, n := range names {
		if p := Permission(n); p.Valid() {
			set.Add(p)
		}
	}
	return set, nil
}

func (s *Service) prepare(ctx context.Context, subject Subject, subjectID int64, name string) (int64, Permission, error) {
	p, err := Parse(name)
	if err != nil {
		return 0, "", err
	}
	if err := s.requireSubject(ctx, subject, subjectID); err != nil {
		return 0, "", err
	}
	row, err := s.repo.GetPermissionByName(ctx, string(p))
	if err != nil {
		return 0, "", internal.NewInternalError("failed to load permission", err)
	}
	if row == nil {
		// catalog entry not seeded yet
		return 0, "", internal.ErrUnknownPermission
	}
	return row.ID, p, nil
}

func (s *Service) requireSubject(ctx context.Context, subject Subject, id int64) error {
	exists, err := s.repo.SubjectExists(ctx, subject, id)
	if err != nil {
		return internal.NewInternalError("failed to load subject", err)
	}
	if exists {
		return nil
	}
	switch subject {
	case SubjectUser:
		return internal.ErrUserNotFound
	case SubjectRole:
		return internal.ErrRoleNotFound
	case SubjectPosition:
		return internal.ErrPositionNotFound
	default:
		return internal.ErrStaffNotFound
	}
}

func (s *Service) publish(ctx context.Context, e *events.PermissionChangedEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to publish permission event", "event_type", e.Type, "error", err)
	}
}
