package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gorm.io/datatypes"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/repository"
)

// DoctorInput carries doctor fields for create and update. Nil pointers are
// left untouched on update.
type DoctorInput struct {
	Name                *string
	Email               *string
	Specialization      *string
	Avatar              *string
	AvgConsultationTime *int
	AvailableSlots      []models.TimeSlot
	UserID              *string
}

type DoctorService struct {
	doctors repository.DoctorRepository
	stats   StatsInvalidator
}

func NewDoctorService(doctors repository.DoctorRepository, stats StatsInvalidator) *DoctorService {
	return &DoctorService{doctors: doctors, stats: stats}
}

func (s *DoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Doctor", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	return doctor, nil
}

func (s *DoctorService) Create(ctx context.Context, in DoctorInput) (*models.Doctor, error) {
	doctor := &models.Doctor{AvgConsultationTime: models.DefaultConsultationMinutes}
	if err := s.apply(ctx, doctor, in); err != nil {
		return nil, err
	}
	if doctor.Name == "" || doctor.Email == "" || doctor.Specialization == "" {
		return nil, invalid("Name, email and specialization are required")
	}
	if doctor.Avatar == "" {
		doctor.Avatar = Initials(doctor.Name)
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	s.invalidate(ctx)
	return doctor, nil
}

func (s *DoctorService) Update(ctx context.Context, id string, in DoctorInput) (*models.Doctor, error) {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, doctor, in); err != nil {
		return nil, err
	}
	if doctor.Name == "" || doctor.Email == "" || doctor.Specialization == "" {
		return nil, invalid("Name, email and specialization cannot be empty")
	}

	if err := s.doctors.Save(ctx, doctor); err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	s.invalidate(ctx)
	return doctor, nil
}

// Delete removes the doctor. Existing appointments keep their snapshot of
// the doctor's name and specialization.
func (s *DoctorService) Delete(ctx context.Context, id string) error {
	err := s.doctors.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "Doctor", ID: id}
	}
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *DoctorService) apply(ctx context.Context, doctor *models.Doctor, in DoctorInput) error {
	if in.Name != nil {
		doctor.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != doctor.Email {
			existing, err := s.doctors.GetByEmail(ctx, email)
			if err == nil && existing.ID != doctor.ID {
				return invalid("A doctor with email %s already exists", email)
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("check doctor email: %w", err)
			}
		}
		doctor.Email = email
	}
	if in.Specialization != nil {
		doctor.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Avatar != nil {
		doctor.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.AvgConsultationTime != nil {
		if *in.AvgConsultationTime <= 0 {
			return invalid("avgConsultationTime must be positive")
		}
		doctor.AvgConsultationTime = *in.AvgConsultationTime
	}
	if in.AvailableSlots != nil {
		doctor.AvailableSlots = datatypes.JSONSlice[models.TimeSlot](in.AvailableSlots)
	}
	if in.UserID != nil {
		if *in.UserID == "" {
			doctor.UserID = nil
		} else {
			userID := *in.UserID
			doctor.UserID = &userID
		}
	}
	return nil
}

func (s *DoctorService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

// Initials builds an avatar label from the letters of a name, skipping a
// leading "Dr." title: "Dr. Sarah Chen" gives "SC".
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 0 && strings.EqualFold(strings.TrimSuffix(word, "."), "dr") {
			continue
		}
		for _, r := range word {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
