package appointment

import (
	"context"
	"sync"
)

// MemoryRepository is the standalone-mode store. A single mutex covers both
// collections so FinalizeVisit is atomic across the status flip and the
// visit insert.
type MemoryRepository struct {
	mu           sync.RWMutex
	appointments []*Appointment
	visits       []*VisitRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *appt
	// Most-recent-first: new admissions go to the head.
	r.appointments = append([]*Appointment{&cp}, r.appointments...)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a := r.findLocked(id)
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findLocked(id)
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	if a.Status != from {
		return nil, ErrStatusChanged
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) FinalizeVisit(ctx context.Context, appointmentID string, visit *VisitRecord) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findLocked(appointmentID)
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	if a.Status != StatusCheckedIn {
		return nil, ErrStatusChanged
	}

	a.Status = StatusCheckedOut
	cp := *visit
	r.visits = append([]*VisitRecord{&cp}, r.visits...)

	out := *a
	return &out, nil
}

func (r *MemoryRepository) ListVisits(ctx context.Context) ([]*VisitRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*VisitRecord, 0, len(r.visits))
	for _, v := range r.visits {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) VisitsByAppointment(ctx context.Context, appointmentID string) ([]*VisitRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*VisitRecord
	for _, v := range r.visits {
		if v.AppointmentID == appointmentID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

// findLocked must be called with the lock held.
func (r *MemoryRepository) findLocked(id string) *Appointment {
	for _, a := range r.appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}
