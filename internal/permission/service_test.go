package permission_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/frahmantamala/clinic-management/internal"
	permissionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/permission"
	"github.com/frahmantamala/clinic-management/internal/core/events"
	"github.com/frahmantamala/clinic-management/internal/permission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type grantKey struct {
	subject permission.Subject
	id      int64
	permID  int64
}

type mockPermissionRepository struct {
	permissions map[string]*permissionDatamodel.Permission
	subjects    map[permission.Subject]map[int64]bool
	grants      map[grantKey]bool
	users       map[int64]bool // id -> active
	userGrants  map[int64][]string
	roleGrants  map[int64][]string
	staffGrants map[int64][]string
	grantErr    error
	statusErr   error
	nextID      int64
}

func newMockPermissionRepository() *mockPermissionRepository {
	return &mockPermissionRepository{
		permissions: map[string]*permissionDatamodel.Permission{},
		subjects:    map[permission.Subject]map[int64]bool{},
		grants:      map[grantKey]bool{},
		users:       map[int64]bool{},
		userGrants:  map[int64][]string{},
		roleGrants:  map[int64][]string{},
		staffGrants: map[int64][]string{},
		nextID:      1,
	}
}

func (m *mockPermissionRepository) addSubject(s permission.Subject, id int64) {
	if m.subjects[s] == nil {
		m.subjects[s] = map[int64]bool{}
	}
	m.subjects[s][id] = true
}

func (m *mockPermissionRepository) UserStatus(_ context.Context, userID int64) (bool, bool, error) {
	if m.statusErr != nil {
		return false, false, m.statusErr
	}
	active, ok := m.users[userID]
	return ok, active, nil
}

func (m *mockPermissionRepository) UserGrantNames(_ context.Context, userID int64) ([]string, error) {
	return m.userGrants[userID], nil
}

func (m *mockPermissionRepository) RoleGrantNames(_ context.Context, userID int64) ([]string, error) {
	return m.roleGrants[userID], nil
}

func (m *mockPermissionRepository) StaffGrantNames(_ context.Context, userID int64) ([]string, error) {
	return m.staffGrants[userID], nil
}

func (m *mockPermissionRepository) ListPermissions(_ context.Context) ([]*permissionDatamodel.Permission, error) {
	out := make([]*permissionDatamodel.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPermissionRepository) GetPermissionByName(_ context.Context, name string) (*permissionDatamodel.Permission, error) {
	return m.permissions[name], nil
}

func (m *mockPermissionRepository) UpsertPermission(_ context.Context, p *permissionDatamodel.Permission) error {
	if existing, ok := m.permissions[p.Name]; ok {
		existing.Description = p.Description
		existing.Category = p.Category
		return nil
	}
	p.ID = m.nextID
	m.nextID++
	m.permissions[p.Name] = p
	return nil
}

func (m *mockPermissionRepository) SubjectExists(_ context.Context, s permission.Subject, id int64) (bool, error) {
	return m.subjects[s][id], nil
}

func (m *mockPermissionRepository) Grant(_ context.Context, s permission.Subject, id, permID int64, _ *int64) (bool, error) {
	if m.grantErr != nil {
		return false, m.grantErr
	}
	k := grantKey{s, id, permID}
	if m.grants[k] {
		return false, nil
	}
	m.grants[k] = true
	return true, nil
}

func (m *mockPermissionRepository) Revoke(_ context.Context, s permission.Subject, id, permID int64) (bool, error) {
	k := grantKey{s, id, permID}
	if !m.grants[k] {
		return false, nil
	}
	delete(m.grants, k)
	return true, nil
}

func (m *mockPermissionRepository) ListGrantNames(_ context.Context, s permission.Subject, id int64) ([]string, error) {
	var names []string
	for k := range m.grants {
		if k.subject != s || k.id != id {
			continue
		}
		for name, p := range m.permissions {
			if p.ID == k.permID {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

type capturingPublisher struct {
	events []events.Event
}

func (c *capturingPublisher) Publish(_ context.Context, e events.Event) error {
	c.events = append(c.events, e)
	return nil
}

func (c *capturingPublisher) PublishSync(ctx context.Context, e events.Event) error {
	return c.Publish(ctx, e)
}

var _ = Describe("Service", func() {
	var (
		repo    *mockPermissionRepository
		bus     *capturingPublisher
		service *permission.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockPermissionRepository()
		bus = &capturingPublisher{}
		service = permission.NewService(repo, bus, slog.New(slog.NewTextHandler(io.Discard, nil)))
		Expect(service.SyncCatalog(ctx)).To(Succeed())
		repo.addSubject(permission.SubjectUser, 7)
		repo.addSubject(permission.SubjectRole, 3)
	})

	It("should seed the whole catalog", func() {
		defs, err := service.ListCatalog(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(defs).To(HaveLen(len(permission.Catalog())))
	})

	It("should report a first grant as a change and a second as a no-op", func() {
		changed, err := service.Grant(ctx, permission.SubjectUser, 7, "view_patients", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		changed, err = service.Grant(ctx, permission.SubjectUser, 7, "view_patients", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse())

		Expect(bus.events).To(HaveLen(2))
		first := bus.events[0].(*events.PermissionChangedEvent)
		Expect(first.EventType()).To(Equal(events.EventTypePermissionGranted))
		Expect(first.Changed).To(BeTrue())
		Expect(first.ActorID).To(Equal(int64(1)))
		Expect(bus.events[1].(*events.PermissionChangedEvent).Changed).To(BeFalse())
	})

	It("should publish a revoke event", func() {
		_, err := service.Grant(ctx, permission.SubjectRole, 3, "manage_users", 1)
		Expect(err).NotTo(HaveOccurred())

		changed, err := service.Revoke(ctx, permission.SubjectRole, 3, "manage_users", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())
		Expect(bus.events[1].EventType()).To(Equal(events.EventTypePermissionRevoked))
	})

	It("should reject permissions outside the catalog", func() {
		_, err := service.Grant(ctx, permission.SubjectUser, 7, "launch_rockets", 1)
		Expect(errors.Is(err, internal.ErrUnknownPermission)).To(BeTrue())
		Expect(bus.events).To(BeEmpty())
	})

	It("should reject catalog permissions that were never seeded", func() {
		delete(repo.permissions, "view_reports")
		_, err := service.Grant(ctx, permission.SubjectUser, 7, "view_reports", 1)
		Expect(errors.Is(err, internal.ErrUnknownPermission)).To(BeTrue())
	})

	DescribeTable("should map a missing subject to its not found error",
		func(subject permission.Subject, want *internal.AppError) {
			_, err := service.Grant(ctx, subject, 404, "view_patients", 1)
			Expect(errors.Is(err, want)).To(BeTrue())
		},
		Entry("user", permission.SubjectUser, internal.ErrUserNotFound),
		Entry("role", permission.SubjectRole, internal.ErrRoleNotFound),
		Entry("position", permission.SubjectPosition, internal.ErrPositionNotFound),
		Entry("staff", permission.SubjectStaff, internal.ErrStaffNotFound),
	)

	It("should wrap repository failures as internal errors", func() {
		repo.grantErr = errors.New("connection reset")
		_, err := service.Grant(ctx, permission.SubjectUser, 7, "view_patients", 1)
		var appErr *internal.AppError
		Expect(errors.As(err, &appErr)).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})

	It("should list direct grants only", func() {
		_, _ = service.Grant(ctx, permission.SubjectUser, 7, "view_staff", 1)
		_, _ = service.Grant(ctx, permission.SubjectRole, 3, "view_reports", 1)

		set, err := service.ListGrants(ctx, permission.SubjectUser, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Names()).To(Equal([]string{"view_staff"}))
	})
})

var _ = Describe("Resolver", func() {
	var (
		repo     *mockPermissionRepository
		resolver *permission.Resolver
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockPermissionRepository()
		resolver = permission.NewResolver(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should union every path", func() {
		repo.users[1] = true
		repo.userGrants[1] = []string{"view_patients"}
		repo.roleGrants[1] = []string{"view_patients", "manage_patients"}
		repo.staffGrants[1] = []string{"record_vital_signs"}

		set, err := resolver.GetUserPermissions(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Names()).To(Equal([]string{"manage_patients", "record_vital_signs", "view_patients"}))
	})

	It("should skip stored names outside the catalog", func() {
		repo.users[1] = true
		repo.userGrants[1] = []string{"view_patients", "legacy_permission"}

		set, err := resolver.GetUserPermissions(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Names()).To(Equal([]string{"view_patients"}))
	})

	It("should give inactive users nothing", func() {
		repo.users[1] = false
		repo.userGrants[1] = []string{"view_patients"}

		set, err := resolver.GetUserPermissions(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(set).To(BeEmpty())
	})

	It("should surface storage failures with an empty set", func() {
		repo.statusErr = errors.New("db down")

		set, err := resolver.GetUserPermissions(ctx, 1)
		Expect(err).To(HaveOccurred())
		Expect(set).To(BeEmpty())
	})
})
