package models

import (
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Priority is the urgency tag on a booking. Only PriorityEmergency changes
// anything: it auto-confirms the booking.
type Priority string

const (
	PriorityEmergency Priority = "emergency"
	PriorityHigh      Priority = "high"
	PriorityMedium    Priority = "medium"
	PriorityNormal    Priority = "normal"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityEmergency, PriorityHigh, PriorityMedium, PriorityNormal:
		return true
	}
	return false
}

// Appointment represents a scheduled medical appointment.
// DoctorName and Specialization are copied at booking time and are not
// updated when the doctor record changes.
type Appointment struct {
	BaseModel
	PatientName    string            `gorm:"size:150;not null" json:"patientName"`
	PatientAge     int               `json:"patientAge"`
	PatientID      *string           `gorm:"size:36;index" json:"patientId,omitempty"`
	DoctorID       string            `gorm:"size:36;not null;index:idx_doctor_day" json:"doctorId"`
	DoctorName     string            `gorm:"size:150;not null" json:"doctorName"`
	Specialization string            `gorm:"size:120" json:"specialization"`
	Date           string            `gorm:"size:10;not null;index:idx_doctor_day" json:"date"`
	StartTime      timeslot.Clock    `gorm:"not null" json:"startTime"`
	EndTime        timeslot.Clock    `gorm:"not null" json:"endTime"`
	Priority       Priority          `gorm:"size:20;default:'normal'" json:"priority"`
	Status         AppointmentStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Reason         string            `gorm:"size:500" json:"reason"`

	// Doctor is the current directory entry, filled in on reads. It is nil
	// once the doctor has been removed.
	Doctor *DoctorSummary `gorm:"-" json:"doctor,omitempty"`
}

// DoctorSummary is the part of a doctor shown next to an appointment.
type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// Interval returns the appointment's [start, end) window.
func (a *Appointment) Interval() timeslot.Interval {
	return timeslot.Interval{Start: a.StartTime, End: a.EndTime}
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status != StatusCancelled
}
