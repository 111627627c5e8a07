package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appointmentRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/appointment"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// AppointmentHandler serves the read-only appointment views for the front end.
type AppointmentHandler struct {
	Appointments appointmentRepo.AppointmentRepository
}

// NewAppointmentHandler constructs the handler.
func NewAppointmentHandler(appointments appointmentRepo.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments}
}

// ListAppointmentsHandler lists a caller's appointments from yesterday up to
// now plus days_ahead (default 30).
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	phone, err := utils.NormalizePhone(c.Query("phone"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid phone number", err.Error())
		return
	}

	daysAhead := 30
	if raw := c.Query("days_ahead"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			daysAhead = parsed
		}
	}

	now := time.Now().UTC()
	appointments, err := h.Appointments.List(c.Request.Context(), models.AppointmentFilter{
		UserPhone: phone,
		Status:    c.Query("status"),
		StartFrom: now.AddDate(0, 0, -1),
		StartTo:   now.AddDate(0, 0, daysAhead),
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, appointments)
}
