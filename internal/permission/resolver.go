package permission

import (
	"context"
	"fmt"
	"log/slog"
)

// GrantReader reads raw grant names for one user along each path.
type GrantReader interface {
	// UserStatus reports whether the account exists and is active.
	UserStatus(ctx context.Context, userID int64) (found bool, active bool, err error)
	UserGrantNames(ctx context.Context, userID int64) ([]string, error)
	RoleGrantNames(ctx context.Context, userID int64) ([]string, error)
	// StaffGrantNames covers both the linked staff record and its position.
	StaffGrantNames(ctx context.Context, userID int64) ([]string, error)
}

// Resolution is the effective set plus the path each grant came from.
type Resolution struct {
	Direct    Set
	FromRoles Set
	FromStaff Set
	Effective Set
}

type Resolver struct {
	repo   GrantReader
	logger *slog.Logger
}

func NewResolver(repo GrantReader, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// GetUserPermissions returns the union of direct, role and staff grants.
// Unknown and inactive users get an empty set and no error.
func (r *Resolver) GetUserPermissions(ctx context.Context, userID int64) (Set, error) {
	res, err := r.Explain(ctx, userID)
	if err != nil {
		return NewSet(), err
	}
	return res.Effective, nil
}

func (r *Resolver) Explain(ctx context.Context, userID int64) (*Resolution, error) {
	empty := &Resolution{Direct: NewSet(), FromRoles: NewSet(), FromStaff: NewSet(), Effective: NewSet()}

	found, active, err := r.repo.UserStatus(ctx, userID)
	if err != nil {
		return empty, fmt.Errorf("resolve permissions: user status: %w", err)
	}
	if !found || !active {
		r.logger.DebugContext(ctx, "no permissions for unknown or inactive user",
			"user_id", userID, "found", found)
		return empty, nil
	}

	direct, err := r.read(ctx, userID, "user", r.repo.UserGrantNames)
	if err != nil {
		return empty, err
	}
	roles, err := r.read(ctx, userID, "role", r.repo.RoleGrantNames)
	if err != nil {
		return empty, err
	}
	staff, err := r.read(ctx, userID, "staff", r.repo.StaffGrantNames)
	if err != nil {
		return empty, err
	}

	return &Resolution{
		Direct:    direct,
		FromRoles: roles,
		FromStaff: staff,
		Effective: direct.Union(roles, staff),
	}, nil
}

func (r *Resolver) read(ctx context.Context, userID int64, path string, fetch func(context.Context, int64) ([]string, error)) (Set, error) {
	names, err := fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %s grants: %w", path, err)
	}
	set := NewSet()
	for _, name := range names {
		p := Permission(name)
		if !p.Valid() {
			// rows outside the catalog are ignored rather than trusted
			r.logger.WarnContext(ctx, "ignoring unknown permission grant",
				"user_id", userID, "path", path, "permission", name)
			continue
		}
		set.Add(p)
	}
	return set, nil
}
