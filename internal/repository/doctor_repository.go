package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
	// GetByIDs returns the doctors that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []string) ([]models.Doctor, error)
	Save(ctx context.Context, doctor *models.Doctor) error
	Delete(ctx context.Context, id string) error
	// ConsultationTimes returns every doctor's average consultation minutes.
	ConsultationTimes(ctx context.Context) ([]int, error)
	// LockForBooking takes a row lock on the doctor for the rest of the
	// current transaction. A missing doctor is not an error.
	LockForBooking(ctx context.Context, id string) error
}

type GormDoctorRepository struct {
	db *gorm.DB
}

func NewGormDoctorRepository(db *gorm.DB) *GormDoctorRepository {
	return &GormDoctorRepository{db: db}
}

func (r *GormDoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Create(doctor).Error
}

func (r *GormDoctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *GormDoctorRepository) GetByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *GormDoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	doctors := []models.Doctor{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *GormDoctorRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Doctor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *GormDoctorRepository) Save(ctx context.Context, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Save(doctor).Error
}

func (r *GormDoctorRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Doctor{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormDoctorRepository) ConsultationTimes(ctx context.Context) ([]int, error) {
	var minutes []int
	err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Pluck("avg_consultation_time", &minutes).Error
	if err != nil {
		return nil, err
	}
	return minutes, nil
}

func (r *GormDoctorRepository) LockForBooking(ctx context.Context, id string) error {
	// SQLite has no row locks; writers are already serialized by the database file lock.
	if r.db.Dialector.Name() == "sqlite" {
		return nil
	}
	var ids []string
	return r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Pluck("id", &ids).Error
}
