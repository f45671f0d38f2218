package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

func testAppointment() *appointment.Appointment {
	return &appointment.Appointment{
		ID:           "apt-1",
		ClinicID:     "c1",
		DoctorID:     "d1",
		PatientName:  "John Doe",
		PatientPhone: "+1234567890",
		Date:         "2025-09-01",
		Time:         "10:00 AM",
		Status:       appointment.StatusPending,
		Reason:       "General Checkup",
		CreatedAt:    time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC),
		Source:       appointment.SourceWeb,
	}
}

func TestSendNewAppointmentPayload(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, logging.New("error"), nil)
	c := clinic.DefaultClinics()[0]

	err := n.SendNewAppointment(context.Background(), testAppointment(), c)
	require.NoError(t, err)

	assert.Equal(t, "new_appointment", got.EventType)
	assert.Equal(t, "apt-1", got.AppointmentID)
	assert.Equal(t, "Evergreen Family Clinic", got.ClinicName)
	assert.Equal(t, "123 Pine St, Seattle", got.ClinicLocation)
	assert.Equal(t, "Dr. Sarah Smith", got.DoctorName)
	assert.Equal(t, "2025-09-01", got.AppointmentDate)
	assert.Equal(t, "10:00 AM", got.AppointmentTime)
	assert.Equal(t, "2025-08-31T12:00:00Z", got.CreatedAt)
	assert.Equal(t, "PENDING", got.Status)
}

func TestSendNewAppointmentUnknownDoctor(t *testing.T) {
	appt := testAppointment()
	appt.DoctorID = "d99"

	payload := BuildPayload(appt, clinic.DefaultClinics()[0])
	assert.Equal(t, "Unassigned", payload.DoctorName)
}

func TestSendNewAppointmentNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, logging.New("error"), nil)
	err := n.SendNewAppointment(context.Background(), testAppointment(), clinic.DefaultClinics()[0])
	assert.Error(t, err)
}

func TestSendNewAppointmentDisabled(t *testing.T) {
	n := NewNotifier("", logging.New("error"), nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.SendNewAppointment(context.Background(), testAppointment(), clinic.DefaultClinics()[0]))
}
