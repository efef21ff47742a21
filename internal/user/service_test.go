package user_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/clinic-management/internal"
	userDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/user"
	"github.com/frahmantamala/clinic-management/internal/permission"
	"github.com/frahmantamala/clinic-management/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type memRepo struct {
	users     map[int64]*userDatamodel.User
	roles     map[int64]*userDatamodel.Role
	userRoles map[int64]map[int64]bool
	nextID    int64
	lastLimit int
	failList  error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:     map[int64]*userDatamodel.User{},
		roles:     map[int64]*userDatamodel.Role{},
		userRoles: map[int64]map[int64]bool{},
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*userDatamodel.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memRepo) List(_ context.Context, limit, _ int) ([]*userDatamodel.User, int64, error) {
	m.lastLimit = limit
	if m.failList != nil {
		return nil, 0, m.failList
	}
	out := make([]*userDatamodel.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) Create(_ context.Context, u *userDatamodel.User, roleIDs []int64) error {
	u.ID = m.id()
	m.users[u.ID] = u
	m.userRoles[u.ID] = map[int64]bool{}
	for _, id := range roleIDs {
		m.userRoles[u.ID][id] = true
	}
	return nil
}

func (m *memRepo) SetActive(_ context.Context, id int64, active bool) error {
	m.users[id].IsActive = active
	return nil
}

func (m *memRepo) RoleNames(_ context.Context, userID int64) ([]string, error) {
	var names []string
	for id := range m.userRoles[userID] {
		names = append(names, m.roles[id].Name)
	}
	return names, nil
}

func (m *memRepo) ListRoles(context.Context) ([]*userDatamodel.Role, error) {
	out := make([]*userDatamodel.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRepo) GetRoleByID(_ context.Context, id int64) (*userDatamodel.Role, error) {
	return m.roles[id], nil
}

func (m *memRepo) GetRoleByName(_ context.Context, name string) (*userDatamodel.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRepo) CreateRole(_ context.Context, r *userDatamodel.Role) error {
	r.ID = m.id()
	m.roles[r.ID] = r
	return nil
}

func (m *memRepo) AssignRole(_ context.Context, userID, roleID int64) (bool, error) {
	if m.userRoles[userID][roleID] {
		return false, nil
	}
	m.userRoles[userID][roleID] = true
	return true, nil
}

func (m *memRepo) RemoveRole(_ context.Context, userID, roleID int64) (bool, error) {
	if !m.userRoles[userID][roleID] {
		return false, nil
	}
	delete(m.userRoles[userID], roleID)
	return true, nil
}

type stubResolver struct {
	perms permission.Set
	err   error
}

func (s stubResolver) GetUserPermissions(context.Context, int64) (permission.Set, error) {
	return s.perms, s.err
}

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		repo     *memRepo
		resolver *stubResolver
		svc      *user.Service
		nurse    *user.Role
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMemRepo()
		resolver = &stubResolver{perms: permission.NewSet()}
		svc = user.NewService(repo, resolver, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))

		var err error
		nurse, err = svc.CreateRole(ctx, user.CreateRoleDTO{Name: " Nurse ", Description: "ward staff"})
		Expect(err).NotTo(HaveOccurred())
	})

	createUser := func(email string, roles ...string) *user.User {
		u, err := svc.CreateUser(ctx, user.CreateUserDTO{
			Email: email, Password: "longenough", FirstName: "Ana", LastName: "Reyes", Roles: roles,
		})
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	Describe("CreateUser", func() {
		It("should store a hashed password and the named roles", func() {
			u := createUser("  Ana@Clinic.PH ", "NURSE")
			Expect(u.Email).To(Equal("ana@clinic.ph"))
			Expect(u.IsActive).To(BeTrue())
			Expect(u.Roles).To(ConsistOf("nurse"))
			Expect(repo.users[u.ID].PasswordHash).NotTo(Equal("longenough"))
		})

		It("should refuse an email that is already registered", func() {
			createUser("ana@clinic.ph")
			_, err := svc.CreateUser(ctx, user.CreateUserDTO{
				Email: "ANA@clinic.ph", Password: "longenough", FirstName: "A", LastName: "B",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should refuse unknown roles before creating anything", func() {
			_, err := svc.CreateUser(ctx, user.CreateUserDTO{
				Email: "b@clinic.ph", Password: "longenough", FirstName: "A", LastName: "B", Roles: []string{"janitor"},
			})
			Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())
			Expect(repo.users).To(BeEmpty())
		})

		It("should validate input", func() {
			_, err := svc.CreateUser(ctx, user.CreateUserDTO{Email: "not-an-email", Password: "short"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("roles", func() {
		It("should normalize and refuse duplicate role names", func() {
			Expect(nurse.Name).To(Equal("nurse"))
			_, err := svc.CreateRole(ctx, user.CreateRoleDTO{Name: "NURSE"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should report whether assign and remove changed anything", func() {
			u := createUser("ana@clinic.ph")

			changed, err := svc.AssignRole(ctx, u.ID, nurse.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())

			changed, err = svc.AssignRole(ctx, u.ID, nurse.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())

			changed, err = svc.RemoveRole(ctx, u.ID, nurse.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())

			changed, err = svc.RemoveRole(ctx, u.ID, nurse.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())
		})

		It("should refuse unknown users and roles", func() {
			u := createUser("ana@clinic.ph")

			_, err := svc.AssignRole(ctx, 999, nurse.ID)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())

			_, err = svc.AssignRole(ctx, u.ID, 999)
			Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())

			_, err = svc.RemoveRole(ctx, u.ID, 999)
			Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())
		})
	})

	Describe("SetActive", func() {
		It("should toggle the flag and keep roles", func() {
			u := createUser("ana@clinic.ph", "nurse")

			got, err := svc.SetActive(ctx, u.ID, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsActive).To(BeFalse())
			Expect(got.Roles).To(ConsistOf("nurse"))

			got, err = svc.SetActive(ctx, u.ID, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsActive).To(BeTrue())
		})

		It("should return not found for unknown users", func() {
			_, err := svc.SetActive(ctx, 42, false)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("GetProfile", func() {
		It("should include resolved permissions", func() {
			u := createUser("ana@clinic.ph")
			resolver.perms = permission.NewSet("view_patient")

			got, err := svc.GetProfile(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Permissions).To(ConsistOf("view_patient"))
		})

		It("should fall back to no permissions when resolution fails", func() {
			u := createUser("ana@clinic.ph")
			resolver.err = errors.New("db down")

			got, err := svc.GetProfile(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Permissions).To(BeEmpty())
		})
	})

	Describe("ListUsers", func() {
		DescribeTable("should clamp the page size",
			func(limit, want int) {
				_, _, err := svc.ListUsers(ctx, limit, -5)
				Expect(err).NotTo(HaveOccurred())
				Expect(repo.lastLimit).To(Equal(want))
			},
			Entry("zero", 0, 20),
			Entry("negative", -1, 20),
			Entry("too large", 500, 20),
			Entry("in range", 50, 50),
		)

		It("should hide repository errors behind an internal error", func() {
			repo.failList = errors.New("db down")
			_, _, err := svc.ListUsers(ctx, 10, 0)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Message).NotTo(ContainSubstring("db down"))
		})
	})
})
