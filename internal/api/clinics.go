package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
)

func listClinicsHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.List())
	}
}

func getClinicHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := dir.Get(chi.URLParam(r, "clinicID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func addStaffHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.ID == "" || req.Name == "" || req.Role == "" {
			writeError(w, http.StatusBadRequest, "invalid_staff", "id, name and role are required")
			return
		}
		err := dir.AddStaff(chi.URLParam(r, "clinicID"), clinic.Staff{
			ID:    req.ID,
			Name:  req.Name,
			Role:  clinic.StaffRole(req.Role),
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, req)
	}
}

func removeStaffHandler(dir *clinic.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := dir.RemoveStaff(chi.URLParam(r, "clinicID"), chi.URLParam(r, "staffID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
