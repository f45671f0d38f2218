package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

func getScheduleHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID := chi.URLParam(r, "clinicID")
		doctorID := chi.URLParam(r, "doctorID")

		week, err := dir.DoctorWeek(clinicID, doctorID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ScheduleResponse{
			ClinicID: clinicID,
			DoctorID: doctorID,
			Week:     week,
		})
	}
}

func addSlotHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		mutateSchedule(w, r, dir, func(week schedule.Week) (schedule.Week, error) {
			return schedule.AddSlot(week, chi.URLParam(r, "day"), schedule.TimeRange{
				Start: req.Start,
				End:   req.End,
			})
		})
	}
}

func removeSlotHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_index", "index must be an integer")
			return
		}
		mutateSchedule(w, r, dir, func(week schedule.Week) (schedule.Week, error) {
			return schedule.RemoveSlot(week, chi.URLParam(r, "day"), index)
		})
	}
}

func toggleDayHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mutateSchedule(w, r, dir, func(week schedule.Week) (schedule.Week, error) {
			return schedule.ToggleDay(week, chi.URLParam(r, "day"))
		})
	}
}

// mutateSchedule applies a schedule edit under the directory's lock and
// writes the updated week. A failed edit leaves the stored schedule intact.
func mutateSchedule(w http.ResponseWriter, r *http.Request, dir *clinic.Directory, fn func(schedule.Week) (schedule.Week, error)) {
	clinicID := chi.URLParam(r, "clinicID")
	doctorID := chi.URLParam(r, "doctorID")

	week, err := dir.UpdateDoctorWeek(clinicID, doctorID, fn)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{
		ClinicID: clinicID,
		DoctorID: doctorID,
		Week:     week,
	})
}

func availabilityHandler(dir *clinic.Directory, horizonDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID := chi.URLParam(r, "clinicID")
		doctorID := chi.URLParam(r, "doctorID")
		date := r.URL.Query().Get("date")
		clock := r.URL.Query().Get("time")
		if date == "" || clock == "" {
			writeError(w, http.StatusBadRequest, "missing_query", "date and time query parameters are required")
			return
		}
		parsed, err := schedule.ParseDate(date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		if _, err := schedule.ParseClock(clock); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be like 10:00 AM or 15:04")
			return
		}

		week, err := dir.DoctorWeek(clinicID, doctorID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := AvailabilityResponse{
			ClinicID:  clinicID,
			DoctorID:  doctorID,
			Date:      date,
			Time:      clock,
			Available: schedule.IsBookable(week, parsed, clock),
		}
		if !resp.Available {
			if day, slot, ok := schedule.NextAvailableSlot(week, parsed, clock, horizonDays); ok {
				resp.NextDate = schedule.FormatDate(day)
				resp.NextStart = slot.Start
				resp.NextEnd = slot.End
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
