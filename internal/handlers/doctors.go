package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/service"
	"github.com/vinayvardhann/careflow-scheduler/internal/utils"
)

// DoctorHandler serves the doctor directory.
type DoctorHandler struct {
	Doctors *service.DoctorService
}

func NewDoctorHandler(doctors *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{Doctors: doctors}
}

// DoctorRequest is the body of create and update. Omitted fields are left
// unchanged on update.
type DoctorRequest struct {
	Name                *string           `json:"name"`
	Email               *string           `json:"email" binding:"omitempty,email"`
	Specialization      *string           `json:"specialization"`
	Avatar              *string           `json:"avatar" binding:"omitempty,max=16"`
	AvgConsultationTime *int              `json:"avgConsultationTime" binding:"omitempty,gt=0"`
	AvailableSlots      []TimeSlotRequest `json:"availableSlots" binding:"omitempty,dive"`
	UserID              *string           `json:"userId"`
}

type TimeSlotRequest struct {
	Date      string `json:"date" binding:"required,isodate"`
	StartTime string `json:"startTime" binding:"required,clock"`
	EndTime   string `json:"endTime" binding:"required,clock"`
	IsBooked  bool   `json:"isBooked"`
}

func (r *DoctorRequest) input() service.DoctorInput {
	in := service.DoctorInput{
		Name:                r.Name,
		Email:               r.Email,
		Specialization:      r.Specialization,
		Avatar:              r.Avatar,
		AvgConsultationTime: r.AvgConsultationTime,
		UserID:              r.UserID,
	}
	if r.AvailableSlots != nil {
		in.AvailableSlots = make([]models.TimeSlot, len(r.AvailableSlots))
		for i, s := range r.AvailableSlots {
			in.AvailableSlots[i] = models.TimeSlot{
				Date:      s.Date,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				IsBooked:  s.IsBooked,
			}
		}
	}
	return in
}

// GetDoctors lists every doctor by name.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.Doctors.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, doctors)
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	doctor, err := h.Doctors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, doctor)
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req DoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	doctor, err := h.Doctors.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, doctor)
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var req DoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	doctor, err := h.Doctors.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, doctor)
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	if err := h.Doctors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Doctor removed")
}
