package appointment

import (
	"context"
	"errors"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrVisitNotFound       = errors.New("visit record not found")

	// ErrStatusChanged is returned by compare-and-set updates when the
	// appointment's status no longer matches the expected value.
	ErrStatusChanged = errors.New("appointment status changed concurrently")
)

// Repository contains all storage interactions needed by the service.
// List returns appointments most-recent-first: Insert prepends.
type Repository interface {
	Insert(ctx context.Context, appt *Appointment) error
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context) ([]*Appointment, error)

	// UpdateStatus applies a compare-and-set transition from -> to.
	UpdateStatus(ctx context.Context, id string, from, to Status) (*Appointment, error)

	// FinalizeVisit atomically inserts the visit record and transitions the
	// appointment CHECKED_IN -> CHECKED_OUT as one logical operation.
	FinalizeVisit(ctx context.Context, appointmentID string, visit *VisitRecord) (*Appointment, error)

	ListVisits(ctx context.Context) ([]*VisitRecord, error)
	VisitsByAppointment(ctx context.Context, appointmentID string) ([]*VisitRecord, error)
}
