package appointment

import "time"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusCompleted  Status = "COMPLETED"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

type Source string

const (
	SourceWeb      Source = "WEB"
	SourceWhatsApp Source = "WHATSAPP"
)

// Appointment is the booking entity. It is created by admission, mutated only
// through status-transition calls, and never deleted: cancellation is a
// status, not a removal.
type Appointment struct {
	ID           string    `json:"id"`
	ClinicID     string    `json:"clinic_id"`
	DoctorID     string    `json:"doctor_id"`
	PatientName  string    `json:"patient_name"`
	PatientPhone string    `json:"patient_phone"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Time         string    `json:"time"` // display string, e.g. "10:00 AM"
	Status       Status    `json:"status"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
	Source       Source    `json:"source"`
}

type Vitals struct {
	BP     string `json:"bp"`
	Weight string `json:"weight"`
	Temp   string `json:"temp"`
}

// VisitRecord is the immutable clinical record produced at checkout. It
// snapshots patient identity at finalize time and references exactly one
// appointment.
type VisitRecord struct {
	ID            string  `json:"id"`
	AppointmentID string  `json:"appointment_id"`
	PatientName   string  `json:"patient_name"`
	PatientPhone  string  `json:"patient_phone"`
	DoctorID      string  `json:"doctor_id"`
	ClinicID      string  `json:"clinic_id"`
	Date          string  `json:"date"`
	Diagnosis     string  `json:"diagnosis"`
	Treatment     string  `json:"treatment"`
	Notes         string  `json:"notes"`
	Vitals        *Vitals `json:"vitals,omitempty"`
}

// BookingRequest is the inbound booking contract shared by every channel:
// direct staff entry, the chat collaborator, and the simulated WhatsApp feed.
type BookingRequest struct {
	ClinicID     string `json:"clinic_id"`
	DoctorID     string `json:"doctor_id"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Reason       string `json:"reason,omitempty"`
	Source       Source `json:"source,omitempty"`
}

// ClinicalFields carries the free-text clinical input gathered at checkout.
type ClinicalFields struct {
	Diagnosis string  `json:"diagnosis"`
	Treatment string  `json:"treatment"`
	Notes     string  `json:"notes"`
	Vitals    *Vitals `json:"vitals,omitempty"`
}
