package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/chat"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	redisclient "github.com/ecuralabs/clinic-booking-service/internal/redis"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeDomainError maps core errors onto HTTP statuses. Every error kind is a
// local, synchronous result; nothing here should ever crash the process.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *appointment.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Details: verr.Error(),
			Field:   verr.Field,
		})
	case errors.Is(err, clinic.ErrClinicNotFound):
		writeError(w, http.StatusNotFound, "clinic_not_found", err.Error())
	case errors.Is(err, clinic.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, clinic.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrDoctorMismatch):
		writeError(w, http.StatusForbidden, "doctor_mismatch", err.Error())
	case errors.Is(err, appointment.ErrBookingContended),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "booking_contended", "booking is currently being processed, please retry shortly")
	case errors.Is(err, schedule.ErrUnknownDay):
		writeError(w, http.StatusBadRequest, "unknown_day", err.Error())
	case errors.Is(err, schedule.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_slot_range", err.Error())
	case errors.Is(err, schedule.ErrSlotIndexOutOfRange):
		writeError(w, http.StatusBadRequest, "slot_index_out_of_range", err.Error())
	case errors.Is(err, chat.ErrAssistantUnavailable):
		writeError(w, http.StatusBadGateway, "assistant_unavailable", "connection issue, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
