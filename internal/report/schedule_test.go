package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
)

func TestDaySchedule(t *testing.T) {
	appointments := []models.Appointment{
		{
			PatientName:    "Emily Davis",
			DoctorName:     "Dr. Sarah Chen",
			Specialization: "Cardiology",
			Date:           "2026-02-22",
			StartTime:      timeslot.MustClock("09:00"),
			EndTime:        timeslot.MustClock("09:20"),
			Priority:       models.PriorityEmergency,
			Status:         models.StatusConfirmed,
		},
		{
			PatientName:    "A patient with a remarkably long name that will not fit",
			DoctorName:     "Dr. Michael Roberts",
			Specialization: "Neurology",
			Date:           "2026-02-22",
			StartTime:      timeslot.MustClock("10:00"),
			EndTime:        timeslot.MustClock("10:30"),
			Priority:       models.PriorityNormal,
			Status:         models.StatusCancelled,
		},
	}

	out, err := DaySchedule("2026-02-22", appointments, time.Date(2026, 2, 22, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestDaySchedule_Empty(t *testing.T) {
	out, err := DaySchedule("2026-02-22", nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestBookedMinutes(t *testing.T) {
	appointments := []models.Appointment{
		{StartTime: timeslot.MustClock("09:00"), EndTime: timeslot.MustClock("09:20"), Status: models.StatusConfirmed},
		{StartTime: timeslot.MustClock("10:00"), EndTime: timeslot.MustClock("10:45"), Status: models.StatusPending},
		{StartTime: timeslot.MustClock("11:00"), EndTime: timeslot.MustClock("12:00"), Status: models.StatusCancelled},
	}

	active, minutes := bookedMinutes(appointments)
	assert.Equal(t, 2, active)
	assert.Equal(t, 65, minutes)
}

func TestFit(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)

	assert.Equal(t, "Short", fit(pdf, "Short", 40))

	trimmed := fit(pdf, "A patient with a remarkably long name that will not fit", 40)
	assert.True(t, len(trimmed) < 55)
	assert.Contains(t, trimmed, "...")
	assert.LessOrEqual(t, pdf.GetStringWidth(trimmed), 40.0)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Pending", titleCase("pending"))
	assert.Equal(t, "", titleCase(""))
}
