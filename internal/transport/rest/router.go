package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/clinic-management/internal/appointment"
	"github.com/frahmantamala/clinic-management/internal/assessment"
	"github.com/frahmantamala/clinic-management/internal/auth"
	"github.com/frahmantamala/clinic-management/internal/core/metrics"
	"github.com/frahmantamala/clinic-management/internal/navigation"
	"github.com/frahmantamala/clinic-management/internal/patient"
	"github.com/frahmantamala/clinic-management/internal/permission"
	"github.com/frahmantamala/clinic-management/internal/prescription"
	"github.com/frahmantamala/clinic-management/internal/report"
	"github.com/frahmantamala/clinic-management/internal/staff"
	"github.com/frahmantamala/clinic-management/internal/transport"
	"github.com/frahmantamala/clinic-management/internal/transport/middleware"
	"github.com/frahmantamala/clinic-management/internal/transport/swagger"
	"github.com/frahmantamala/clinic-management/internal/user"
	"github.com/frahmantamala/clinic-management/internal/vitalsign"
	"github.com/go-chi/chi"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Base         *transport.BaseHandler
	Auth         *auth.Handler
	Principals   middleware.PrincipalLoader
	User         *user.Handler
	Permission   *permission.Handler
	Navigation   *navigation.Handler
	Staff        *staff.Handler
	Patient      *patient.Handler
	VitalSign    *vitalsign.Handler
	Appointment  *appointment.Handler
	Prescription *prescription.Handler
	Assessment   *assessment.Handler
	Report       *report.Handler
}

type Options struct {
	Logger            *slog.Logger
	AllowedOrigins    string
	MetricsEnabled    bool
	MetricsPath       string
	EncryptionEnabled bool
	OpenAPIDocument   []byte
}

// permissionSubjects maps the admin route segment to the grantee kind.
var permissionSubjects = []struct {
	segment string
	subject permission.Subject
}{
	{"users", permission.SubjectUser},
	{"roles", permission.SubjectRole},
	{"positions", permission.SubjectPosition},
	{"staff", permission.SubjectStaff},
}

func RegisterAllRoutes(router chi.Router, db *sql.DB, h Handlers, opts Options) {
	healthHandler := NewHealthHandler(db, opts.EncryptionEnabled)
	need := func(required ...permission.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Base, required...)
	}

	router.Use(middleware.ContextLogger(opts.Logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware)
	if opts.MetricsEnabled {
		router.Use(middleware.Metrics)
		router.Handle(opts.MetricsPath, metrics.Handler())
	}

	if len(opts.OpenAPIDocument) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPIDocument)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(h.Principals, h.Base))

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Get("/users/me/permissions", h.Permission.GetMyPermissions)
			pr.Get("/navigation", h.Navigation.GetMenu)
			pr.Get("/permissions", h.Permission.GetCatalog)

			pr.Route("/patients", func(pt chi.Router) {
				pt.Group(func(rd chi.Router) {
					rd.Use(need(permission.ViewPatients, permission.ManagePatients))
					rd.Get("/", h.Patient.List)
					rd.Get("/record/{recordNumber}", h.Patient.GetByRecordNumber)
					rd.Get("/{patientID}", h.Patient.Get)
				})
				pt.Group(func(wr chi.Router) {
					wr.Use(need(permission.ManagePatients))
					wr.Post("/", h.Patient.Register)
					wr.Put("/{patientID}", h.Patient.Update)
					wr.Delete("/{patientID}", h.Patient.Archive)
					wr.Post("/{patientID}/restore", h.Patient.Restore)
				})

				pt.With(need(permission.ViewVitalSigns)).Get("/{patientID}/vital-signs", h.VitalSign.ListByPatient)
				pt.With(need(permission.RecordVitalSigns)).Post("/{patientID}/vital-signs", h.VitalSign.Record)

				pt.With(need(permission.ViewAssessments)).Get("/{patientID}/assessments/ncd", h.Assessment.ListNCD)
				pt.With(need(permission.ManageAssessments)).Post("/{patientID}/assessments/ncd", h.Assessment.RecordNCD)
				pt.With(need(permission.ViewAssessments)).Get("/{patientID}/assessments/heeadsss", h.Assessment.ListHEEADSSS)
				pt.With(need(permission.ManageAssessments)).Post("/{patientID}/assessments/heeadsss", h.Assessment.RecordHEEADSSS)
			})

			pr.With(need(permission.ViewVitalSigns)).Get("/vital-signs/{id}", h.VitalSign.Get)
			pr.With(need(permission.ViewAssessments)).Get("/assessments/ncd/{id}", h.Assessment.GetNCD)
			pr.With(need(permission.ViewAssessments)).Get("/assessments/heeadsss/{id}", h.Assessment.GetHEEADSSS)

			pr.Route("/appointments", func(ap chi.Router) {
				ap.Group(func(rd chi.Router) {
					rd.Use(need(permission.ViewAppointments, permission.ManageAppointments))
					rd.Get("/", h.Appointment.List)
					rd.Get("/{id}", h.Appointment.Get)
				})
				ap.Group(func(wr chi.Router) {
					wr.Use(need(permission.ManageAppointments))
					wr.Post("/", h.Appointment.Schedule)
					wr.Patch("/{id}/reschedule", h.Appointment.Reschedule)
					wr.Patch("/{id}/complete", h.Appointment.Complete)
					wr.Patch("/{id}/cancel", h.Appointment.Cancel)
					wr.Patch("/{id}/no-show", h.Appointment.MarkNoShow)
				})
			})

			pr.Route("/prescriptions", func(rx chi.Router) {
				rx.Group(func(rd chi.Router) {
					rd.Use(need(permission.ViewPrescriptions, permission.ManagePrescriptions, permission.DispenseMedicines))
					rd.Get("/", h.Prescription.List)
					rd.Get("/{id}", h.Prescription.Get)
				})
				rx.Group(func(wr chi.Router) {
					wr.Use(need(permission.ManagePrescriptions))
					wr.Post("/", h.Prescription.Create)
					wr.Patch("/{id}/cancel", h.Prescription.Cancel)
				})
				rx.With(need(permission.DispenseMedicines)).Patch("/{id}/dispense", h.Prescription.Dispense)
			})

			pr.Route("/staff", func(st chi.Router) {
				st.Group(func(rd chi.Router) {
					rd.Use(need(permission.ViewStaff, permission.ManageStaff))
					rd.Get("/", h.Staff.List)
					rd.Get("/positions", h.Staff.ListPositions)
					rd.Get("/{id}", h.Staff.Get)
				})
				st.Group(func(wr chi.Router) {
					wr.Use(need(permission.ManageStaff))
					wr.Post("/", h.Staff.Create)
					wr.Post("/positions", h.Staff.CreatePosition)
					wr.Put("/{id}/position", h.Staff.AssignPosition)
					wr.Put("/{id}/account", h.Staff.LinkAccount)
					wr.Patch("/{id}/active", h.Staff.SetActive)
				})
			})

			pr.Route("/admin", func(ad chi.Router) {
				ad.Group(func(ur chi.Router) {
					ur.Use(need(permission.ManageUsers))
					ur.Get("/users", h.User.ListUsers)
					ur.Post("/users", h.User.CreateUser)
					ur.Get("/users/{id}", h.User.GetUser)
					ur.Patch("/users/{id}/active", h.User.SetActive)
					ur.Put("/users/{id}/roles/{roleID}", h.User.AssignRole)
					ur.Delete("/users/{id}/roles/{roleID}", h.User.RemoveRole)
					ur.Get("/roles", h.User.ListRoles)
					ur.Post("/roles", h.User.CreateRole)
				})

				ad.Group(func(pm chi.Router) {
					pm.Use(need(permission.ManagePermissions))
					pm.Get("/users/{id}/permissions/effective", h.Permission.GetUserResolution)
					for _, s := range permissionSubjects {
						base := "/" + s.segment + "/{id}/permissions"
						pm.Get(base, h.Permission.ListGrants(s.subject))
						pm.Post(base+"/{name}", h.Permission.Grant(s.subject))
						pm.Delete(base+"/{name}", h.Permission.Revoke(s.subject))
					}
				})

				ad.With(need(permission.ViewReports)).Get("/reports/summary", h.Report.GetSummary)
			})
		})
	})
}
