package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Store bundles the repositories that share one connection or transaction.
type Store struct {
	db *gorm.DB

	Appointments AppointmentRepository
	Doctors      DoctorRepository
	Users        UserRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Appointments: NewGormAppointmentRepository(db),
		Doctors:      NewGormDoctorRepository(db),
		Users:        NewGormUserRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for callers that need raw access (seeding, health).
func (s *Store) DB() *gorm.DB {
	return s.db
}
