package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/notify"
	"github.com/ecuralabs/clinic-booking-service/internal/observability/metrics"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

// ErrAssistantUnavailable wraps chat-completion failures. The caller surfaces
// a retry-eligible error to the user; nothing is retried automatically and no
// partial negotiation state is persisted.
var ErrAssistantUnavailable = errors.New("assistant unavailable, please try again")

const systemPromptFormat = `You are a professional, caring WhatsApp-based medical assistant for the following provider:
%s

SCHEDULING RULES:
- You MUST respect the granular schedules provided for each doctor.
- If a day is listed as "unavailable", the doctor cannot be booked that day.
- Only offer slots that fall within the listed time ranges.
- Always suggest the next available slot if the user's requested time is outside working hours.

TONE:
- Empathetic and professional, WhatsApp style (bold important words like *dates* or *names*).

BOOKING FLOW:
1. Greet the user and identify the clinic.
2. Ask for the patient's full name and phone number.
3. Negotiate date/time against the schedules provided.
4. Ask for the reason for the visit.
5. ONLY call 'bookAppointment' when you have ALL 5 required parameters.

Current Date/Time Context: %s`

// Response is the outcome of one chat turn. Appointment is non-nil when the
// turn resulted in an admitted booking.
type Response struct {
	Reply       string                   `json:"reply"`
	Appointment *appointment.Appointment `json:"appointment,omitempty"`
}

// Assistant drives the conversational booking flow. Booking intents coming
// back from the model are untrusted: they are checked against the
// availability resolver and admitted through the regular lifecycle service,
// so the chat channel cannot book outside declared working hours.
type Assistant struct {
	client   Client
	dir      *clinic.Directory
	bookings *appointment.Service
	notifier *notify.Notifier
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics

	horizonDays int
	now         func() time.Time
}

type AssistantOption func(*Assistant)

func WithHorizon(days int) AssistantOption {
	return func(a *Assistant) { a.horizonDays = days }
}

func WithAssistantClock(now func() time.Time) AssistantOption {
	return func(a *Assistant) { a.now = now }
}

func WithAssistantMetrics(m *metrics.BookingMetrics) AssistantOption {
	return func(a *Assistant) { a.metrics = m }
}

func NewAssistant(client Client, dir *clinic.Directory, bookings *appointment.Service, notifier *notify.Notifier, logger *logging.Logger, opts ...AssistantOption) *Assistant {
	if logger == nil {
		logger = logging.Default()
	}
	a := &Assistant{
		client:      client,
		dir:         dir,
		bookings:    bookings,
		notifier:    notifier,
		logger:      logger,
		horizonDays: schedule.DefaultScanHorizonDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process runs one negotiation turn for the given clinic. The returned error
// is ErrAssistantUnavailable for backend failures; validation problems with a
// model-suggested booking become conversational decline replies instead of
// errors.
func (a *Assistant) Process(ctx context.Context, clinicID string, history []Turn) (*Response, error) {
	start := a.now()

	clinicContext, err := a.dir.AssistantContext(clinicID)
	if err != nil {
		return nil, err
	}

	system := fmt.Sprintf(systemPromptFormat, clinicContext, a.now().Format("Monday, 2006-01-02 15:04"))

	result, err := a.client.Converse(ctx, system, history)
	if err != nil {
		a.metrics.ObserveChatTurn("error", a.now().Sub(start).Seconds())
		a.logger.Error("chat completion failed", "clinic_id", clinicID, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrAssistantUnavailable, err)
	}

	if result.Intent == nil {
		reply := result.Text
		if reply == "" {
			reply = "I'm checking the schedules..."
		}
		a.metrics.ObserveChatTurn("reply", a.now().Sub(start).Seconds())
		return &Response{Reply: reply}, nil
	}

	resp := a.handleIntent(ctx, clinicID, result.Intent)
	a.metrics.ObserveChatTurn(turnOutcome(resp), a.now().Sub(start).Seconds())
	return resp, nil
}

func turnOutcome(resp *Response) string {
	if resp.Appointment != nil {
		return "booked"
	}
	return "declined"
}

func (a *Assistant) handleIntent(ctx context.Context, clinicID string, intent *BookingIntent) *Response {
	req := appointment.BookingRequest{
		ClinicID:     clinicID,
		DoctorID:     intent.DoctorID,
		PatientName:  intent.PatientName,
		PatientPhone: intent.PatientPhone,
		Date:         intent.Date,
		Time:         intent.Time,
		Reason:       intent.Reason,
		Source:       appointment.SourceWeb,
	}

	week, err := a.dir.DoctorWeek(clinicID, intent.DoctorID)
	if err != nil {
		a.logger.Warn("chat intent referenced unknown doctor", "clinic_id", clinicID, "doctor_id", intent.DoctorID)
		return &Response{Reply: "I couldn't find that doctor on our roster. Could you pick one of the doctors I listed?"}
	}

	// The chat channel is availability-enforced: the model's suggestion is
	// never trusted over the resolver's verdict.
	if !schedule.IsBookableOn(week, intent.Date, intent.Time) {
		return &Response{Reply: a.declineWithSuggestion(week, intent)}
	}

	appt, err := a.bookings.AdmitBooking(ctx, req)
	if err != nil {
		var verr *appointment.ValidationError
		if errors.As(err, &verr) {
			a.logger.Warn("chat intent failed validation", "clinic_id", clinicID, "field", verr.Field)
			return &Response{Reply: fmt.Sprintf("I still need a valid *%s* before I can register the appointment. Could you share it?", verr.Field)}
		}
		a.logger.Error("chat booking admission failed", "clinic_id", clinicID, "error", err)
		return &Response{Reply: "Something went wrong while registering the appointment. Please try again."}
	}

	delivered := false
	if a.notifier.Enabled() {
		if err := a.notifier.SendNewAppointment(ctx, appt, mustClinic(a.dir, clinicID)); err == nil {
			delivered = true
		}
	}

	status := "_Local booking saved. Manual follow-up may be required._"
	if delivered {
		status = "_WhatsApp notification sent._"
	}
	reply := fmt.Sprintf(
		"*Appointment Registered!*\nPatient: %s\nDate: %s at %s\n%s\nOur team will review your request and confirm shortly.",
		appt.PatientName, appt.Date, appt.Time, status,
	)
	return &Response{Reply: reply, Appointment: appt}
}

func (a *Assistant) declineWithSuggestion(week schedule.Week, intent *BookingIntent) string {
	base := fmt.Sprintf("I'm sorry, *%s at %s* is outside the doctor's working hours.", intent.Date, intent.Time)

	from, err := schedule.ParseDate(intent.Date)
	if err != nil {
		from = a.now()
	}
	date, slot, ok := schedule.NextAvailableSlot(week, from, intent.Time, a.horizonDays)
	if !ok {
		return base + " I couldn't find an open slot in the coming weeks; our staff will follow up."
	}
	return fmt.Sprintf("%s The next available slot is *%s* between *%s-%s*. Would that work?",
		base, schedule.FormatDate(date), slot.Start, slot.End)
}

func mustClinic(dir *clinic.Directory, clinicID string) *clinic.Clinic {
	c, err := dir.Get(clinicID)
	if err != nil {
		// The clinic existed moments ago when building context; an empty
		// payload clinic is better than failing the booking reply.
		return &clinic.Clinic{ID: clinicID}
	}
	return c
}
