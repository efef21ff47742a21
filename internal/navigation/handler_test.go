package navigation_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/clinic-management/internal/auth"
	"github.com/frahmantamala/clinic-management/internal/navigation"
	"github.com/frahmantamala/clinic-management/internal/permission"
	"github.com/frahmantamala/clinic-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var handler *navigation.Handler

	BeforeEach(func() {
		registry, err := navigation.Load("")
		Expect(err).NotTo(HaveOccurred())
		handler = navigation.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), registry)
	})

	serve := func(target string, p *auth.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if p != nil {
			req = req.WithContext(auth.ContextWithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		handler.GetMenu(rec, req)
		return rec
	}

	nurse := &auth.Principal{
		UserID:      7,
		Roles:       []string{"nurse", "midwife"},
		Permissions: permission.NewSet(permission.ViewPatients, permission.RecordVitalSigns),
	}

	It("should use the primary role by default", func() {
		rec := serve("/navigation", nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp navigation.MenuResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Role).To(Equal("nurse"))
		Expect(keys(resp.Items)).To(Equal([]string{"patients", "vital_signs"}))
	})

	It("should allow another held role", func() {
		rec := serve("/navigation?role=midwife", nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should match a requested role regardless of case", func() {
		rec := serve("/navigation?role=%20Midwife%20", nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp navigation.MenuResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Role).To(Equal("midwife"))
	})

	It("should refuse a role the caller does not hold", func() {
		rec := serve("/navigation?role=admin", nurse)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should serve the default menu to callers without roles", func() {
		rec := serve("/navigation", &auth.Principal{UserID: 8, Permissions: permission.NewSet(permission.ViewAppointments)})
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp navigation.MenuResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Role).To(Equal("default"))
		Expect(keys(resp.Items)).To(Equal([]string{"appointments"}))
	})

	It("should require a principal", func() {
		Expect(serve("/navigation", nil).Code).To(Equal(http.StatusUnauthorized))
	})
})
