// Package report renders printable schedules.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
)

var columns = []struct {
	title string
	width float64
}{
	{"Time", 26},
	{"Min", 12},
	{"Patient", 36},
	{"Doctor", 36},
	{"Specialization", 34},
	{"Priority", 22},
	{"Status", 24},
}

// DaySchedule renders the appointments of one day as an A4 PDF table. The
// slice is printed in the order given.
func DaySchedule(date string, appointments []models.Appointment, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle("Schedule "+date, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(24, 70, 140)
	pdf.CellFormat(0, 10, "CareFlow - Daily Schedule", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", date), "", 1, "C", false, 0, "")

	active, minutes := bookedMinutes(appointments)
	pdf.CellFormat(0, 7, fmt.Sprintf("%d appointments, %d active, %d minutes booked", len(appointments), active, minutes), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 236, 245)
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(appointments) == 0 {
		pdf.CellFormat(0, 8, "No appointments booked.", "1", 1, "C", false, 0, "")
	}
	for _, a := range appointments {
		if !a.Active() {
			pdf.SetTextColor(150, 150, 150)
		}
		row := []string{
			a.Interval().String(),
			strconv.Itoa(a.Interval().Minutes()),
			a.PatientName,
			a.DoctorName,
			a.Specialization,
			titleCase(string(a.Priority)),
			titleCase(string(a.Status)),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, 7, fit(pdf, row[i], col.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetY(pdf.GetY() + 8)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.UTC().Format(time.RFC1123), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render schedule: %w", err)
	}
	return buf.Bytes(), nil
}

// bookedMinutes counts the active appointments and the minutes they occupy.
func bookedMinutes(appointments []models.Appointment) (active, minutes int) {
	for i := range appointments {
		if appointments[i].Active() {
			active++
			minutes += appointments[i].Interval().Minutes()
		}
	}
	return active, minutes
}

// fit trims s with an ellipsis until it renders within width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
