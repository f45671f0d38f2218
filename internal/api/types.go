package api

import (
	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/chat"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

type CreateAppointmentRequest struct {
	ClinicID     string `json:"clinic_id"`
	DoctorID     string `json:"doctor_id"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Reason       string `json:"reason,omitempty"`
	Source       string `json:"source,omitempty"`

	// Confirmed marks a staff-entered booking that skips the PENDING stage.
	Confirmed bool `json:"confirmed,omitempty"`
	// EnforceAvailability rejects the booking when the requested time falls
	// outside the doctor's working hours. Staff leave it unset for walk-ins.
	EnforceAvailability bool `json:"enforce_availability,omitempty"`
}

func (r CreateAppointmentRequest) booking() appointment.BookingRequest {
	return appointment.BookingRequest{
		ClinicID:     r.ClinicID,
		DoctorID:     r.DoctorID,
		PatientName:  r.PatientName,
		PatientPhone: r.PatientPhone,
		Date:         r.Date,
		Time:         r.Time,
		Reason:       r.Reason,
		Source:       appointment.Source(r.Source),
	}
}

type CheckInRequest struct {
	DoctorID string `json:"doctor_id"`
}

type CheckoutRequest struct {
	Diagnosis string              `json:"diagnosis"`
	Treatment string              `json:"treatment"`
	Notes     string              `json:"notes"`
	Vitals    *appointment.Vitals `json:"vitals,omitempty"`
}

type AddSlotRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ScheduleResponse struct {
	ClinicID string        `json:"clinic_id"`
	DoctorID string        `json:"doctor_id"`
	Week     schedule.Week `json:"week"`
}

type AvailabilityResponse struct {
	ClinicID  string `json:"clinic_id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`

	// Next* are populated when the requested time is unavailable and a later
	// slot exists inside the scan horizon.
	NextDate  string `json:"next_date,omitempty"`
	NextStart string `json:"next_start,omitempty"`
	NextEnd   string `json:"next_end,omitempty"`
}

type AddStaffRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ChatRequest struct {
	Messages []chat.Turn `json:"messages"`
}

type ChatResponse struct {
	Reply       string                   `json:"reply"`
	Appointment *appointment.Appointment `json:"appointment,omitempty"`
}
