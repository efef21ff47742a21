package staff_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/clinic-management/internal"
	staffDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/staff"
	"github.com/frahmantamala/clinic-management/internal/staff"
)

func TestStaff(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Staff Suite")
}

type memRepo struct {
	positions map[int64]*staffDatamodel.StaffPosition
	staff     map[int64]*staffDatamodel.Staff
	users     map[int64]bool
	nextID    int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		positions: map[int64]*staffDatamodel.StaffPosition{},
		staff:     map[int64]*staffDatamodel.Staff{},
		users:     map[int64]bool{},
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) ListPositions(context.Context) ([]*staffDatamodel.StaffPosition, error) {
	out := make([]*staffDatamodel.StaffPosition, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) GetPositionByID(_ context.Context, id int64) (*staffDatamodel.StaffPosition, error) {
	return m.positions[id], nil
}

func (m *memRepo) GetPositionByName(_ context.Context, name string) (*staffDatamodel.StaffPosition, error) {
	for _, p := range m.positions {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memRepo) CreatePosition(_ context.Context, p *staffDatamodel.StaffPosition) error {
	p.ID = m.id()
	m.positions[p.ID] = p
	return nil
}

func (m *memRepo) List(_ context.Context, activeOnly bool) ([]*staffDatamodel.Staff, error) {
	var out []*staffDatamodel.Staff
	for _, s := range m.staff {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*staffDatamodel.Staff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) GetByUserID(_ context.Context, userID int64) (*staffDatamodel.Staff, error) {
	for _, s := range m.staff {
		if s.UserID != nil && *s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Create(_ context.Context, s *staffDatamodel.Staff) error {
	s.ID = m.id()
	m.staff[s.ID] = s
	return nil
}

func (m *memRepo) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	s := m.staff[id]
	for k, v := range fields {
		switch k {
		case "staff_position_id":
			pid := v.(int64)
			s.StaffPositionID = &pid
		case "user_id":
			uid := v.(int64)
			s.UserID = &uid
		case "is_active":
			s.IsActive = v.(bool)
		}
	}
	return nil
}

func (m *memRepo) UserExists(_ context.Context, userID int64) (bool, error) {
	return m.users[userID], nil
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		repo    *memRepo
		svc     *staff.Service
		midwife *staff.Position
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMemRepo()
		repo.users[7] = true
		repo.users[8] = true
		svc = staff.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		var err error
		midwife, err = svc.CreatePosition(ctx, staff.CreatePositionDTO{Name: " Midwife "})
		Expect(err).NotTo(HaveOccurred())
	})

	newStaff := func() *staff.Staff {
		st, err := svc.Create(ctx, staff.CreateStaffDTO{FirstName: "Liza", LastName: "Cruz"})
		Expect(err).NotTo(HaveOccurred())
		return st
	}

	It("should refuse a duplicate position name", func() {
		Expect(midwife.Name).To(Equal("Midwife"))
		_, err := svc.CreatePosition(ctx, staff.CreatePositionDTO{Name: "midwife"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
	})

	It("should create active records and require names", func() {
		st := newStaff()
		Expect(st.IsActive).To(BeTrue())
		Expect(st.FullName()).To(Equal("Liza Cruz"))

		_, err := svc.Create(ctx, staff.CreateStaffDTO{FirstName: "  "})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
	})

	Describe("AssignPosition", func() {
		It("should set the position", func() {
			st := newStaff()
			got, err := svc.AssignPosition(ctx, st.ID, midwife.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PositionID).To(HaveValue(Equal(midwife.ID)))
		})

		It("should refuse unknown positions and staff", func() {
			st := newStaff()
			_, err := svc.AssignPosition(ctx, st.ID, 999)
			Expect(errors.Is(err, internal.ErrPositionNotFound)).To(BeTrue())
			Expect(repo.staff[st.ID].StaffPositionID).To(BeNil())

			_, err = svc.AssignPosition(ctx, 999, midwife.ID)
			Expect(errors.Is(err, internal.ErrStaffNotFound)).To(BeTrue())
		})

		It("should check the position when creating a record", func() {
			missing := int64(999)
			_, err := svc.Create(ctx, staff.CreateStaffDTO{FirstName: "A", LastName: "B", PositionID: &missing})
			Expect(errors.Is(err, internal.ErrPositionNotFound)).To(BeTrue())
			Expect(repo.staff).To(BeEmpty())
		})
	})

	Describe("LinkAccount", func() {
		It("should link an existing account", func() {
			st := newStaff()
			got, err := svc.LinkAccount(ctx, st.ID, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserID).To(HaveValue(Equal(int64(7))))
		})

		It("should allow relinking the same record to its own account", func() {
			st := newStaff()
			_, err := svc.LinkAccount(ctx, st.ID, 7)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.LinkAccount(ctx, st.ID, 7)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse an account already backing another record", func() {
			first, second := newStaff(), newStaff()
			_, err := svc.LinkAccount(ctx, first.ID, 7)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.LinkAccount(ctx, second.ID, 7)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
			Expect(repo.staff[second.ID].UserID).To(BeNil())
		})

		It("should refuse unknown accounts", func() {
			st := newStaff()
			_, err := svc.LinkAccount(ctx, st.ID, 404)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("active flag", func() {
		It("should deactivate and hide the record from active listings", func() {
			st := newStaff()
			Expect(svc.RequireActive(ctx, st.ID)).To(Succeed())

			got, err := svc.SetActive(ctx, st.ID, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsActive).To(BeFalse())

			active, err := svc.List(ctx, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(BeEmpty())

			all, err := svc.List(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))

			err = svc.RequireActive(ctx, st.ID)
			Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())
		})

		It("should return not found for unknown records", func() {
			_, err := svc.SetActive(ctx, 999, true)
			Expect(errors.Is(err, internal.ErrStaffNotFound)).To(BeTrue())
		})
	})
})
