package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/observability/metrics"
	redisclient "github.com/ecuralabs/clinic-booking-service/internal/redis"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

const DefaultReason = "General Checkup"

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDoctorMismatch    = errors.New("appointment belongs to a different doctor")
	ErrBookingContended  = errors.New("booking is being processed, please retry")
)

// ValidationError reports a malformed or incomplete booking field. The
// operation is rejected with all state unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid booking: %s: %s", e.Field, e.Reason)
}

// IDGenerator produces entity identifiers. Injectable so tests can supply
// deterministic ids; defaults are uuid-based.
type IDGenerator func() string

// Service owns the appointment state machine. All admissions and status
// transitions go through it; nothing transitions state spontaneously.
//
// Admission deliberately does not re-run the availability resolver: staff
// must be able to override availability for walk-ins and exceptions. Callers
// wanting strict enforcement (the chat channel does) check the resolver
// before admitting.
type Service struct {
	repo    Repository
	dir     *clinic.Directory
	locker  redisclient.Locker
	logger  *logging.Logger
	metrics *metrics.BookingMetrics

	apptIDs  IDGenerator
	visitIDs IDGenerator
	now      func() time.Time
}

type Option func(*Service)

func WithLocker(l redisclient.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithIDGenerators(appt, visit IDGenerator) Option {
	return func(s *Service) {
		s.apptIDs = appt
		s.visitIDs = visit
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo Repository, dir *clinic.Directory, logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		repo:     repo,
		dir:      dir,
		locker:   redisclient.NewLocalLocker(),
		logger:   logger,
		apptIDs:  func() string { return "apt-" + uuid.NewString() },
		visitIDs: func() string { return "v-" + uuid.NewString() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AdmitBooking admits a booking from any channel in PENDING status.
func (s *Service) AdmitBooking(ctx context.Context, req BookingRequest) (*Appointment, error) {
	return s.admit(ctx, req, StatusPending)
}

// AdmitStaffBooking admits a booking entered directly by clinic staff.
// The trusted direct-entry path is treated as immediately confirmed.
func (s *Service) AdmitStaffBooking(ctx context.Context, req BookingRequest) (*Appointment, error) {
	return s.admit(ctx, req, StatusConfirmed)
}

func (s *Service) admit(ctx context.Context, req BookingRequest, status Status) (*Appointment, error) {
	if err := validateBooking(&req); err != nil {
		return nil, err
	}

	// Referenced clinic/doctor must exist; a dangling reference is a
	// lookup failure, not a validation failure.
	if _, err := s.dir.GetDoctor(req.ClinicID, req.DoctorID); err != nil {
		return nil, err
	}

	var created *Appointment
	key := fmt.Sprintf("booking:%s:%s", req.DoctorID, req.Date)

	err := s.locker.WithLock(ctx, key, func(lockCtx context.Context) error {
		appt := &Appointment{
			ID:           s.apptIDs(),
			ClinicID:     req.ClinicID,
			DoctorID:     req.DoctorID,
			PatientName:  req.PatientName,
			PatientPhone: req.PatientPhone,
			Date:         req.Date,
			Time:         req.Time,
			Status:       status,
			Reason:       req.Reason,
			CreatedAt:    s.now(),
			Source:       req.Source,
		}
		if err := s.repo.Insert(lockCtx, appt); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBookingContended
		}
		return nil, err
	}

	s.metrics.ObserveAdmission(string(created.Source), string(created.Status))
	s.logger.Info("booking admitted",
		"appointment_id", created.ID,
		"clinic_id", created.ClinicID,
		"doctor_id", created.DoctorID,
		"date", created.Date,
		"time", created.Time,
		"status", created.Status,
		"source", created.Source,
	)
	return created, nil
}

// Confirm moves a pending appointment to confirmed (staff verification).
func (s *Service) Confirm(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, "confirm", []Status{StatusPending}, StatusConfirmed, nil)
}

// Cancel cancels a pending or confirmed appointment. CANCELLED is terminal.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, "cancel", []Status{StatusPending, StatusConfirmed}, StatusCancelled, nil)
}

// CheckIn moves an appointment to checked-in. The acting doctor must be the
// appointment's doctor.
func (s *Service) CheckIn(ctx context.Context, id, actingDoctorID string) (*Appointment, error) {
	guard := func(a *Appointment) error {
		if a.DoctorID != actingDoctorID {
			return ErrDoctorMismatch
		}
		return nil
	}
	return s.transition(ctx, id, "check_in", []Status{StatusPending, StatusConfirmed}, StatusCheckedIn, guard)
}

func (s *Service) transition(ctx context.Context, id, action string, from []Status, to Status, guard func(*Appointment) error) (*Appointment, error) {
	var updated *Appointment

	err := s.locker.WithLock(ctx, "appointment:"+id, func(lockCtx context.Context) error {
		appt, err := s.repo.Get(lockCtx, id)
		if err != nil {
			return err
		}
		if appt.Status.Terminal() {
			return ErrInvalidTransition
		}
		allowed := false
		for _, f := range from {
			if appt.Status == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrInvalidTransition
		}
		if guard != nil {
			if err := guard(appt); err != nil {
				return err
			}
		}

		updated, err = s.repo.UpdateStatus(lockCtx, id, appt.Status, to)
		if errors.Is(err, ErrStatusChanged) {
			return ErrInvalidTransition
		}
		return err
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			err = ErrBookingContended
		}
		s.metrics.ObserveTransition(action, false)
		return nil, err
	}

	s.metrics.ObserveTransition(action, true)
	s.logger.Info("appointment transitioned", "appointment_id", id, "action", action, "status", updated.Status)
	return updated, nil
}

// FinalizeVisit converts a checked-in appointment into an immutable visit
// record and flips the appointment to CHECKED_OUT as one logical operation.
// Exactly-once: a second call fails because the appointment is no longer
// checked in.
func (s *Service) FinalizeVisit(ctx context.Context, appointmentID string, fields ClinicalFields) (*VisitRecord, error) {
	var visit *VisitRecord

	err := s.locker.WithLock(ctx, "appointment:"+appointmentID, func(lockCtx context.Context) error {
		appt, err := s.repo.Get(lockCtx, appointmentID)
		if err != nil {
			return err
		}
		if appt.Status != StatusCheckedIn {
			return ErrInvalidTransition
		}

		v := &VisitRecord{
			ID:            s.visitIDs(),
			AppointmentID: appt.ID,
			PatientName:   appt.PatientName,
			PatientPhone:  appt.PatientPhone,
			DoctorID:      appt.DoctorID,
			ClinicID:      appt.ClinicID,
			Date:          schedule.FormatDate(s.now()),
			Diagnosis:     fields.Diagnosis,
			Treatment:     fields.Treatment,
			Notes:         fields.Notes,
			Vitals:        fields.Vitals,
		}

		if _, err := s.repo.FinalizeVisit(lockCtx, appt.ID, v); err != nil {
			if errors.Is(err, ErrStatusChanged) {
				return ErrInvalidTransition
			}
			return err
		}
		visit = v
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			err = ErrBookingContended
		}
		s.metrics.ObserveTransition("checkout", false)
		return nil, err
	}

	s.metrics.ObserveTransition("checkout", true)
	s.logger.Info("visit finalized", "appointment_id", appointmentID, "visit_id", visit.ID)
	return visit, nil
}

// Get retrieves one appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves all appointments, most-recent-first.
func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.repo.List(ctx)
}

// Visits retrieves all visit records, most-recent-first.
func (s *Service) Visits(ctx context.Context) ([]*VisitRecord, error) {
	return s.repo.ListVisits(ctx)
}

// VisitsFor retrieves the visit records referencing one appointment.
func (s *Service) VisitsFor(ctx context.Context, appointmentID string) ([]*VisitRecord, error) {
	return s.repo.VisitsByAppointment(ctx, appointmentID)
}

func validateBooking(req *BookingRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"patientName", req.PatientName},
		{"patientPhone", req.PatientPhone},
		{"clinicId", req.ClinicID},
		{"doctorId", req.DoctorID},
		{"date", req.Date},
		{"time", req.Time},
	}
	for _, f := range required {
		if f.value == "" {
			return &ValidationError{Field: f.field, Reason: "required"}
		}
	}

	if _, err := schedule.ParseDate(req.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := schedule.ParseClock(req.Time); err != nil {
		return &ValidationError{Field: "time", Reason: "unrecognized time format"}
	}

	if req.Reason == "" {
		req.Reason = DefaultReason
	}
	if req.Source == "" {
		req.Source = SourceWeb
	}
	return nil
}
