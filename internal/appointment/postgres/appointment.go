package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/clinic-management/internal/appointment"
	appointmentDatamodel "github.com/frahmantamala/clinic-management/internal/core/datamodel/appointment"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

var _ appointment.RepositoryAPI = (*AppointmentRepository)(nil)

func (r *AppointmentRepository) Create(ctx context.Context, a *appointmentDatamodel.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*appointmentDatamodel.Appointment, error) {
	var a appointmentDatamodel.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) filtered(ctx context.Context, f appointment.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&appointmentDatamodel.Appointment{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.PatientID > 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.StaffID > 0 {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if !f.From.IsZero() {
		q = q.Where("scheduled_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("scheduled_at < ?", f.To)
	}
	return q
}

func (r *AppointmentRepository) List(ctx context.Context, f appointment.Filter) ([]*appointmentDatamodel.Appointment, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*appointmentDatamodel.Appointment
	err := r.filtered(ctx, f).
		Order("scheduled_at ASC, id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *AppointmentRepository) UpdateIfStatus(ctx context.Context, id int64, from appointment.Status, fields map[string]interface{}) (bool, error) {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&appointmentDatamodel.Appointment{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}
