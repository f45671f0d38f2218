package clinic

import "github.com/ecuralabs/clinic-booking-service/internal/schedule"

type StaffRole string

const (
	RoleNurse          StaffRole = "NURSE"
	RoleReceptionist   StaffRole = "RECEPTIONIST"
	RoleAdminAssistant StaffRole = "ADMIN_ASSISTANT"
)

type Staff struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Role  StaffRole `json:"role"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

type Doctor struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Specialty string        `json:"specialty"`
	Week      schedule.Week `json:"schedules"`
}

// Clinic owns its doctors and staff by composition: removing a clinic removes
// them. Appointments and visit records reference clinic/doctor IDs but live
// in their own collection.
type Clinic struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Specialty   string   `json:"specialty"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Doctors     []Doctor `json:"doctors"`
	Staff       []Staff  `json:"staff"`
}
