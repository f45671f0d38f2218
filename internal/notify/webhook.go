package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/observability/metrics"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

const payloadSource = "Ecura Connect CMS"

// Payload is the structured body POSTed to the automation webhook, shaped for
// easy mapping into WhatsApp Cloud API / Twilio flows downstream.
type Payload struct {
	Source          string `json:"source"`
	EventType       string `json:"event_type"`
	AppointmentID   string `json:"appointment_id"`
	ClinicName      string `json:"clinic_name"`
	ClinicLocation  string `json:"clinic_location"`
	DoctorName      string `json:"doctor_name"`
	PatientName     string `json:"patient_name"`
	PatientPhone    string `json:"patient_phone"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Reason          string `json:"reason"`
	CreatedAt       string `json:"created_at"`
	Status          string `json:"status"`
}

// Notifier relays finalized bookings to an external automation webhook.
// Delivery is advisory: a failure is logged and surfaced softly but never
// reverses the already-admitted booking, and nothing is retried.
type Notifier struct {
	url     string
	client  *http.Client
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
}

func NewNotifier(url string, logger *logging.Logger, m *metrics.BookingMetrics) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
		metrics: m,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// BuildPayload assembles the outbound notification for a new appointment.
func BuildPayload(appt *appointment.Appointment, c *clinic.Clinic) Payload {
	doctorName := "Unassigned"
	for _, d := range c.Doctors {
		if d.ID == appt.DoctorID {
			doctorName = d.Name
			break
		}
	}
	return Payload{
		Source:          payloadSource,
		EventType:       "new_appointment",
		AppointmentID:   appt.ID,
		ClinicName:      c.Name,
		ClinicLocation:  c.Location,
		DoctorName:      doctorName,
		PatientName:     appt.PatientName,
		PatientPhone:    appt.PatientPhone,
		AppointmentDate: appt.Date,
		AppointmentTime: appt.Time,
		Reason:          appt.Reason,
		CreatedAt:       appt.CreatedAt.UTC().Format(time.RFC3339),
		Status:          string(appt.Status),
	}
}

// SendNewAppointment POSTs the payload. Any non-2xx response or transport
// error counts as a delivery failure.
func (n *Notifier) SendNewAppointment(ctx context.Context, appt *appointment.Appointment, c *clinic.Clinic) error {
	if !n.Enabled() {
		return nil
	}

	payload := BuildPayload(appt, c)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.metrics.ObserveWebhook(false)
		n.logger.Warn("webhook delivery failed", "appointment_id", appt.ID, "error", err)
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.metrics.ObserveWebhook(false)
		n.logger.Warn("webhook delivery rejected", "appointment_id", appt.ID, "status", resp.StatusCode)
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	n.metrics.ObserveWebhook(true)
	n.logger.Info("webhook delivered", "appointment_id", appt.ID)
	return nil
}
