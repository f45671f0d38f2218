package clinic

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

// DefaultClinics is the built-in roster used when no seed file is supplied.
func DefaultClinics() []*Clinic {
	return []*Clinic{
		{
			ID:          "c1",
			Name:        "Evergreen Family Clinic",
			Description: "Comprehensive family care, wellness programs, and preventive medicine for all ages.",
			Location:    "123 Pine St, Seattle",
			Specialty:   "Family Medicine",
			Rating:      4.8,
			Reviews:     124,
			Doctors: []Doctor{
				{ID: "d1", Name: "Dr. Sarah Smith", Specialty: "General Practitioner", Week: schedule.DefaultWeek()},
				{ID: "d2", Name: "Dr. James Wilson", Specialty: "Pediatrician", Week: schedule.DefaultWeek()},
			},
			Staff: []Staff{
				{ID: "s1", Name: "Nurse Joy", Role: RoleNurse, Email: "joy@evergreen.example", Phone: "+123445566"},
				{ID: "s2", Name: "Alice Receptionist", Role: RoleReceptionist, Email: "alice@evergreen.example", Phone: "+123445577"},
			},
		},
		{
			ID:          "c2",
			Name:        "City Heart Specialists",
			Description: "Cardiac care with state-of-the-art diagnostic equipment and world-class specialists.",
			Location:    "456 Cardiac Ave, New York",
			Specialty:   "Cardiology",
			Rating:      4.9,
			Reviews:     89,
			Doctors: []Doctor{
				{ID: "d3", Name: "Dr. Elena Rossi", Specialty: "Cardiologist", Week: schedule.DefaultWeek()},
				{ID: "d4", Name: "Dr. Mark Thompson", Specialty: "Cardiac Surgeon", Week: schedule.DefaultWeek()},
			},
		},
	}
}

// LoadClinics reads a clinic roster from a JSON seed file, typically produced
// by cmd/seed.
func LoadClinics(path string) ([]*Clinic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clinics file: %w", err)
	}
	var clinics []*Clinic
	if err := json.Unmarshal(data, &clinics); err != nil {
		return nil, fmt.Errorf("parse clinics file: %w", err)
	}
	return clinics, nil
}
