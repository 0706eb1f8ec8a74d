package models

import (
	"gorm.io/datatypes"
)

// TimeSlot is a declared availability window on a doctor's profile.
// Booking does not consult these; they are informational for the dashboard.
type TimeSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsBooked  bool   `json:"isBooked"`
}

const DefaultConsultationMinutes = 20

// Doctor is a bookable practitioner.
type Doctor struct {
	BaseModel
	Name                string                        `gorm:"size:150;not null" json:"name"`
	Email               string                        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Specialization      string                        `gorm:"size:120;not null" json:"specialization"`
	Avatar              string                        `gorm:"size:16" json:"avatar,omitempty"`
	AvgConsultationTime int                           `gorm:"default:20" json:"avgConsultationTime"`
	AvailableSlots      datatypes.JSONSlice[TimeSlot] `json:"availableSlots"`
	UserID              *string                       `gorm:"size:36;index" json:"userId,omitempty"`
}

func (d *Doctor) Summary() *DoctorSummary {
	return &DoctorSummary{ID: d.ID, Name: d.Name, Specialization: d.Specialization}
}
