package service

import (
	"context"
	"fmt"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/repository"
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
)

// ConflictChecker finds bookings that would overlap a requested interval.
type ConflictChecker struct {
	appointments repository.AppointmentRepository
}

func NewConflictChecker(appointments repository.AppointmentRepository) *ConflictChecker {
	return &ConflictChecker{appointments: appointments}
}

// FindConflict returns the earliest non-cancelled appointment of doctorID on
// date whose [start, end) overlaps iv, or nil when the slot is free.
// excludeID, when set, is ignored so an appointment can be moved within its
// own window.
func (c *ConflictChecker) FindConflict(
	ctx context.Context,
	doctorID, date string,
	iv timeslot.Interval,
	excludeID string,
) (*models.Appointment, error) {
	existing, err := c.appointments.ListActiveForDoctorDay(ctx, doctorID, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("load doctor day: %w", err)
	}
	for i := range existing {
		if existing[i].Interval().Overlaps(iv) {
			return &existing[i], nil
		}
	}
	return nil, nil
}

// HasConflict is FindConflict reduced to a yes/no answer.
func (c *ConflictChecker) HasConflict(
	ctx context.Context,
	doctorID, date string,
	iv timeslot.Interval,
	excludeID string,
) (bool, error) {
	conflict, err := c.FindConflict(ctx, doctorID, date, iv, excludeID)
	return conflict != nil, err
}
