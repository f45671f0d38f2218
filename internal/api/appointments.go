package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/notify"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

func createAppointmentHandler(svc *appointment.Service, dir *clinic.Directory, notifier *notify.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.EnforceAvailability {
			week, err := dir.DoctorWeek(req.ClinicID, req.DoctorID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			if !schedule.IsBookableOn(week, req.Date, req.Time) {
				writeError(w, http.StatusConflict, "outside_working_hours",
					"requested time is outside the doctor's working hours")
				return
			}
		}

		admit := svc.AdmitBooking
		if req.Confirmed {
			admit = svc.AdmitStaffBooking
		}
		appt, err := admit(r.Context(), req.booking())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		notifyNewAppointment(notifier, dir, appt)

		writeJSON(w, http.StatusCreated, appt)
	}
}

// notifyNewAppointment fires the CMS webhook without blocking the response.
// Delivery failures are logged by the notifier; the booking stands either way.
func notifyNewAppointment(notifier *notify.Notifier, dir *clinic.Directory, appt *appointment.Appointment) {
	if notifier == nil || !notifier.Enabled() {
		return
	}
	c, err := dir.Get(appt.ClinicID)
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = notifier.SendNewAppointment(ctx, appt, c)
	}()
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.List(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appts)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func confirmAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Confirm(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Cancel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func checkInAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		appt, err := svc.CheckIn(r.Context(), chi.URLParam(r, "id"), req.DoctorID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func checkoutAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		visit, err := svc.FinalizeVisit(r.Context(), chi.URLParam(r, "id"), appointment.ClinicalFields{
			Diagnosis: req.Diagnosis,
			Treatment: req.Treatment,
			Notes:     req.Notes,
			Vitals:    req.Vitals,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, visit)
	}
}

func listVisitsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visits, err := svc.Visits(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, visits)
	}
}

func appointmentVisitsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visits, err := svc.VisitsFor(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, visits)
	}
}
