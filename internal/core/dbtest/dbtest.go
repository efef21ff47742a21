// Package dbtest opens an in-memory SQLite database with every clinic table
// migrated and the phi serializer registered. Only tests import it.
package dbtest

import (
	"bytes"
	"io"
	"log/slog"

	appointmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/appointment"
	assessmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/assessment"
	patientDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/patient"
	permissionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/permission"
	prescriptionDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/prescription"
	staffDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/staff"
	userDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/user"
	vitalsignDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/vitalsign"
	"github.com/frahmantamala/clinic-management/internal/core/fieldcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Key is the AES key tests encrypt with.
var Key = bytes.Repeat([]byte{0x5a}, 32)

func Models() []interface{} {
	models := []interface{}{}
	models = append(models, userDatamodel.AllModels()...)
	models = append(models, staffDatamodel.AllModels()...)
	models = append(models, permissionDatamodel.AllModels()...)
	models = append(models,
		&patientDatamodel.Patient{},
		&vitalsignDatamodel.VitalSign{},
		&appointmentDatamodel.Appointment{},
		&prescriptionDatamodel.Prescription{},
		&assessmentDatamodel.NCDAssessment{},
		&assessmentDatamodel.HEEADSSSAssessment{},
	)
	return models
}

// Cipher returns the cipher registered by Open.
func Cipher() *fieldcrypt.Cipher {
	c, err := fieldcrypt.NewCipher(Key, 1)
	if err != nil {
		panic(err)
	}
	return c
}

func Open() (*gorm.DB, error) {
	fieldcrypt.Register(fieldcrypt.NewSerializer(Cipher(), slog.New(slog.NewTextHandler(io.Discard, nil))))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every new connection to :memory: is a fresh, empty database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}
	return db, nil
}
