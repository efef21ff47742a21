// Package app wires repositories, services and handlers into a runnable
// HTTP application. The server command and the end-to-end tests both build
// on it.
package app

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/frahmantamala/clinic-management/api"
	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/appointment"
	appointmentPostgres "github.com/frahmantamala/clinic-management/internal/appointment/postgres"
	"github.com/frahmantamala/clinic-management/internal/assessment"
	assessmentPostgres "github.com/frahmantamala/clinic-management/internal/assessment/postgres"
	"github.com/frahmantamala/clinic-management/internal/auth"
	authPostgres "github.com/frahmantamala/clinic-management/internal/auth/postgres"
	"github.com/frahmantamala/clinic-management/internal/core/events"
	"github.com/frahmantamala/clinic-management/internal/core/fieldcrypt"
	"github.com/frahmantamala/clinic-management/internal/navigation"
	"github.com/frahmantamala/clinic-management/internal/patient"
	patientPostgres "github.com/frahmantamala/clinic-management/internal/patient/postgres"
	"github.com/frahmantamala/clinic-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/clinic-management/internal/permission/postgres"
	"github.com/frahmantamala/clinic-management/internal/prescription"
	prescriptionPostgres "github.com/frahmantamala/clinic-management/internal/prescription/postgres"
	"github.com/frahmantamala/clinic-management/internal/report"
	reportPostgres "github.com/frahmantamala/clinic-management/internal/report/postgres"
	"github.com/frahmantamala/clinic-management/internal/staff"
	staffPostgres "github.com/frahmantamala/clinic-management/internal/staff/postgres"
	"github.com/frahmantamala/clinic-management/internal/transport"
	"github.com/frahmantamala/clinic-management/internal/transport/rest"
	"github.com/frahmantamala/clinic-management/internal/user"
	userPostgres "github.com/frahmantamala/clinic-management/internal/user/postgres"
	"github.com/frahmantamala/clinic-management/internal/vitalsign"
	vitalsignPostgres "github.com/frahmantamala/clinic-management/internal/vitalsign/postgres"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type App struct {
	Config *internal.Config
	DB     *gorm.DB
	Bus    *events.EventBus
	Logger *slog.Logger

	Permissions *permission.Service
	Resolver    *permission.Resolver
	Auth        *auth.Service
	Users       *user.Service
	Staff       *staff.Service
	Patients    *patient.Service

	handlers rest.Handlers
}

// New builds the application over db. sqlDriver names the database/sql
// driver behind db ("pgx" or "sqlite3") so sqlx picks the right bind
// variables for the report queries.
func New(cfg *internal.Config, db *gorm.DB, sqlDriver string, logger *slog.Logger) (*App, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	menus, err := navigation.Load(cfg.Navigation.MenuFile)
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(logger)
	events.NewAuditSubscriber(logger).Register(bus)

	permissionRepo := permissionPostgres.NewPermissionRepository(db)
	permissionService := permission.NewService(permissionRepo, bus, logger)
	resolver := permission.NewResolver(permissionRepo, logger)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(db), resolver, tokens, logger)

	userService := user.NewService(userPostgres.NewUserRepository(db), resolver, cfg.Security.BCryptCost, logger)
	staffService := staff.NewService(staffPostgres.NewStaffRepository(db), logger)
	patientService := patient.NewService(patientPostgres.NewPatientRepository(db), logger)
	vitalsignService := vitalsign.NewService(vitalsignPostgres.NewVitalSignRepository(db), patientService, logger)
	appointmentService := appointment.NewService(appointmentPostgres.NewAppointmentRepository(db), patientService, staffService, logger)
	prescriptionService := prescription.NewService(prescriptionPostgres.NewPrescriptionRepository(db), patientService, logger)
	assessmentService := assessment.NewService(assessmentPostgres.NewAssessmentRepository(db), patientService, logger)
	reportService := report.NewService(reportPostgres.NewReportRepository(sqlx.NewDb(sqlDB, sqlDriver)), logger)

	base := transport.NewBaseHandler(logger)
	return &App{
		Config:      cfg,
		DB:          db,
		Bus:         bus,
		Logger:      logger,
		Permissions: permissionService,
		Resolver:    resolver,
		Auth:        authService,
		Users:       userService,
		Staff:       staffService,
		Patients:    patientService,
		handlers: rest.Handlers{
			Base:         base,
			Auth:         auth.NewHandler(base, authService),
			Principals:   authService,
			User:         user.NewHandler(base, userService),
			Permission:   permission.NewHandler(base, permissionService, resolver),
			Navigation:   navigation.NewHandler(base, menus),
			Staff:        staff.NewHandler(base, staffService),
			Patient:      patient.NewHandler(base, patientService),
			VitalSign:    vitalsign.NewHandler(base, vitalsignService),
			Appointment:  appointment.NewHandler(base, appointmentService),
			Prescription: prescription.NewHandler(base, prescriptionService),
			Assessment:   assessment.NewHandler(base, assessmentService),
			Report:       report.NewHandler(base, reportService),
		},
	}, nil
}

// Router returns a chi router with every route mounted.
func (a *App) Router() (*chi.Mux, error) {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return nil, err
	}
	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB, a.handlers, rest.Options{
		Logger:            a.Logger,
		AllowedOrigins:    a.Config.Server.AllowedOrigins,
		MetricsEnabled:    a.Config.Observability.Metrics.Enabled,
		MetricsPath:       a.Config.Observability.Metrics.Path,
		EncryptionEnabled: a.Config.Encryption.Enabled(),
		OpenAPIDocument:   api.Document,
	})
	return router, nil
}

// SetupEncryption builds the PHI cipher from cfg, including retired keys,
// and registers the gorm serializer. It must run before the first gorm
// query so models pick up the registered serializer.
func SetupEncryption(cfg internal.EncryptionConfig, logger *slog.Logger) (*fieldcrypt.Cipher, error) {
	cipher, err := fieldcrypt.NewCipherFromHex(cfg.Key, cfg.KeyVersion)
	if err != nil {
		return nil, err
	}
	for version, key := range cfg.PreviousKeys {
		v, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("previous key version %q: %w", version, err)
		}
		if err := cipher.AddPreviousHexKey(key, v); err != nil {
			return nil, err
		}
	}
	if !cipher.Enabled() {
		logger.Warn("PHI encryption is disabled, sensitive columns will be stored as plaintext")
	}
	fieldcrypt.Register(fieldcrypt.NewSerializer(cipher, logger))
	return cipher, nil
}
