package api

import (
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/notify"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

// simulateWhatsAppHandler fabricates one inbound WhatsApp booking: a random
// patient against a random doctor, placed on that doctor's next open slot.
// It exercises the same admission path as every other channel, so the
// resulting appointment is a real PENDING booking.
func simulateWhatsAppHandler(svc *appointment.Service, dir *clinic.Directory, notifier *notify.Notifier, horizonDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinics := dir.List()
		if len(clinics) == 0 {
			writeError(w, http.StatusServiceUnavailable, "no_clinics", "clinic directory is empty")
			return
		}
		c := clinics[gofakeit.Number(0, len(clinics)-1)]
		if len(c.Doctors) == 0 {
			writeError(w, http.StatusServiceUnavailable, "no_doctors", "selected clinic has no doctors")
			return
		}
		d := c.Doctors[gofakeit.Number(0, len(c.Doctors)-1)]

		tomorrow := time.Now().AddDate(0, 0, 1)
		day, slot, ok := schedule.NextAvailableSlot(d.Week, tomorrow, "00:00", horizonDays)
		if !ok {
			writeError(w, http.StatusConflict, "no_availability",
				"no open slot inside the scan horizon")
			return
		}

		appt, err := svc.AdmitBooking(r.Context(), appointment.BookingRequest{
			ClinicID:     c.ID,
			DoctorID:     d.ID,
			PatientName:  gofakeit.Name(),
			PatientPhone: gofakeit.Phone(),
			Date:         schedule.FormatDate(day),
			Time:         slot.Start,
			Reason:       "Urgent consult via WhatsApp",
			Source:       appointment.SourceWhatsApp,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		notifyNewAppointment(notifier, dir, appt)

		writeJSON(w, http.StatusCreated, appt)
	}
}
