package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/report"
	"github.com/vinayvardhann/careflow-scheduler/internal/service"
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
	"github.com/vinayvardhann/careflow-scheduler/internal/utils"
)

// Subscriber upgrades a request into a live appointment event feed.
type Subscriber interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string, role models.Role) error
}

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Appointments *service.AppointmentService
	Stats        *service.StatsAggregator
	Events       Subscriber
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments *service.AppointmentService, stats *service.StatsAggregator, events Subscriber) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments, Stats: stats, Events: events}
}

// CreateAppointmentRequest represents the request body for booking.
// patientName and patientAge default to the caller's profile.
type CreateAppointmentRequest struct {
	DoctorID    string `json:"doctorId" binding:"required"`
	Date        string `json:"date" binding:"required,isodate"`
	StartTime   string `json:"startTime" binding:"required,clock"`
	EndTime     string `json:"endTime" binding:"required,clock"`
	Priority    string `json:"priority"`
	Reason      string `json:"reason" binding:"max=500"`
	PatientName string `json:"patientName" binding:"max=150"`
	PatientAge  *int   `json:"patientAge"`
}

// CreateAppointment books a slot; overlapping an active booking gives 409.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.Book(c.Request.Context(), callerFrom(c), service.BookRequest{
		DoctorID:    req.DoctorID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Priority:    req.Priority,
		Reason:      req.Reason,
		PatientName: req.PatientName,
		PatientAge:  req.PatientAge,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, appointment)
}

// GetAppointments lists appointments visible to the caller, filtered by the
// date, status, priority and doctorId query parameters.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appointments, err := h.Appointments.List(c.Request.Context(), callerFrom(c), service.ListFilter{
		Date:     c.Query("date"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		DoctorID: c.Query("doctorId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, appointments)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Appointments.Get(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, appointment)
}

// UpdateStatusRequest represents the request body for updating appointment status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling an appointment.
type RescheduleAppointmentRequest struct {
	Date      string `json:"date" binding:"required,isodate"`
	StartTime string `json:"startTime" binding:"required,clock"`
	EndTime   string `json:"endTime" binding:"required,clock"`
}

// RescheduleAppointment moves the appointment and puts it back to pending.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.Reschedule(c.Request.Context(), c.Param("id"), service.RescheduleRequest{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, appointment)
}

// CancelAppointmentResponse is returned by DELETE; the record is kept.
type CancelAppointmentResponse struct {
	Message     string              `json:"message"`
	Appointment *models.Appointment `json:"appointment"`
}

func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointment, err := h.Appointments.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, CancelAppointmentResponse{Message: "Appointment cancelled", Appointment: appointment})
}

func (h *AppointmentHandler) GetStats(c *gin.Context) {
	stats, err := h.Stats.Compute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, stats)
}

// GetScheduleReport renders the day's schedule as a PDF. date defaults to today.
func (h *AppointmentHandler) GetScheduleReport(c *gin.Context) {
	date := c.DefaultQuery("date", h.Stats.Today())
	if _, err := timeslot.ParseDate(date); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	appointments, err := h.Appointments.List(c.Request.Context(), callerFrom(c), service.ListFilter{
		Date:     date,
		DoctorID: c.Query("doctorId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := report.DaySchedule(date, appointments, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="schedule-%s.pdf"`, date))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// StreamEvents upgrades to a websocket that receives appointment changes.
func (h *AppointmentHandler) StreamEvents(c *gin.Context) {
	caller := callerFrom(c)
	if err := h.Events.Serve(c.Writer, c.Request, caller.ID, caller.Role); err != nil {
		// The upgrader has already written the HTTP error.
		log.Printf("event stream for %s: %v", caller.ID, err)
	}
}
