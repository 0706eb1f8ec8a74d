package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
)

// AppointmentFilter holds optional equality filters; empty fields are ignored.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Date      string
	Status    models.AppointmentStatus
	Priority  models.Priority
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// Save writes every column of an existing appointment.
	Save(ctx context.Context, appointment *models.Appointment) error
	// UpdateStatus writes only the status column and returns the stored row.
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error)
	// List returns matching appointments ordered by date, then start time.
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	// ListActiveForDoctorDay returns the doctor's non-cancelled appointments on
	// date ordered by start time, leaving out excludeID when it is set.
	ListActiveForDoctorDay(ctx context.Context, doctorID, date, excludeID string) ([]models.Appointment, error)
	Count(ctx context.Context, filter AppointmentFilter) (int64, error)
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

func (r *GormAppointmentRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status models.AppointmentStatus,
) (*models.Appointment, error) {
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return nil, err
	}
	// RowsAffected is 0 on MySQL when the value is unchanged, so existence
	// comes from the reload.
	return r.GetByID(ctx, id)
}

func (r *GormAppointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	err := r.filtered(ctx, filter).
		Order("date ASC").
		Order("start_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *GormAppointmentRepository) ListActiveForDoctorDay(
	ctx context.Context,
	doctorID, date, excludeID string,
) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Where("status <> ?", models.StatusCancelled)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var appointments []models.Appointment
	if err := q.Order("start_time ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *GormAppointmentRepository) Count(ctx context.Context, filter AppointmentFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormAppointmentRepository) filtered(ctx context.Context, filter AppointmentFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != "" {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	return q
}
