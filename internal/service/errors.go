package service

import (
	"fmt"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
)

// ConflictError reports an overlapping, non-cancelled booking for the same
// doctor and day. ConflictWith is set when the caller should be shown the
// clashing appointment.
type ConflictError struct {
	Message      string
	ConflictWith *models.Appointment
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Time slot conflict detected. This slot is already booked."
}

// NotFoundError reports a missing doctor or appointment.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ValidationError reports a request that is missing or has malformed fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
