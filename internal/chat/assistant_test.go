package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/notify"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

type fakeClient struct {
	result     Result
	err        error
	lastSystem string
}

func (f *fakeClient) Converse(ctx context.Context, system string, history []Turn) (Result, error) {
	f.lastSystem = system
	if f.err != nil {
		return Result{}, f.err
	}
	return f.result, nil
}

func newTestAssistant(t *testing.T, client Client, webhookURL string) (*Assistant, *appointment.Service) {
	t.Helper()

	dir := clinic.NewDirectory(clinic.DefaultClinics())
	logger := logging.New("error")
	svc := appointment.NewService(appointment.NewMemoryRepository(), dir, logger,
		appointment.WithIDGenerators(
			func() string { return "apt-chat" },
			func() string { return "v-chat" },
		),
	)
	notifier := notify.NewNotifier(webhookURL, logger, nil)

	a := NewAssistant(client, dir, svc, notifier, logger,
		WithAssistantClock(func() time.Time { return time.Date(2025, 8, 31, 9, 0, 0, 0, time.UTC) }),
	)
	return a, svc
}

func validIntent() *BookingIntent {
	// 2025-09-01 is a Monday; 10:00 AM falls inside the default 09:00-12:00 shift.
	return &BookingIntent{
		PatientName:  "John Doe",
		PatientPhone: "+1234567890",
		Date:         "2025-09-01",
		Time:         "10:00 AM",
		DoctorID:     "d1",
	}
}

func TestProcessFreeTextReply(t *testing.T) {
	client := &fakeClient{result: Result{Text: "What day works for you?"}}
	a, _ := newTestAssistant(t, client, "")

	resp, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "What day works for you?", resp.Reply)
	assert.Nil(t, resp.Appointment)
	assert.Contains(t, client.lastSystem, "Evergreen Family Clinic")
}

func TestProcessUnknownClinic(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeClient{}, "")

	_, err := a.Process(context.Background(), "c99", []Turn{{Role: RoleUser, Text: "hi"}})
	assert.ErrorIs(t, err, clinic.ErrClinicNotFound)
}

func TestProcessBackendFailureIsRetryEligible(t *testing.T) {
	client := &fakeClient{err: errors.New("connection reset")}
	a, _ := newTestAssistant(t, client, "")

	_, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "hi"}})
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
}

func TestProcessBooksValidIntent(t *testing.T) {
	var delivered bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &fakeClient{result: Result{Intent: validIntent()}}
	a, svc := newTestAssistant(t, client, srv.URL)

	resp, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "book it"}})
	require.NoError(t, err)

	require.NotNil(t, resp.Appointment)
	assert.Equal(t, appointment.StatusPending, resp.Appointment.Status)
	assert.Equal(t, appointment.SourceWeb, resp.Appointment.Source)
	assert.Contains(t, resp.Reply, "Appointment Registered")
	assert.Contains(t, resp.Reply, "WhatsApp notification sent")
	assert.True(t, delivered)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestProcessWebhookFailureKeepsBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &fakeClient{result: Result{Intent: validIntent()}}
	a, svc := newTestAssistant(t, client, srv.URL)

	resp, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "book it"}})
	require.NoError(t, err)

	require.NotNil(t, resp.Appointment)
	assert.Contains(t, resp.Reply, "Manual follow-up may be required")

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1, "webhook failure never reverses an admitted booking")
}

func TestProcessRejectsOutsideWorkingHours(t *testing.T) {
	intent := validIntent()
	intent.Time = "01:00 PM" // Monday gap between the two default shifts
	client := &fakeClient{result: Result{Intent: intent}}
	a, svc := newTestAssistant(t, client, "")

	resp, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "book it"}})
	require.NoError(t, err)

	assert.Nil(t, resp.Appointment)
	assert.Contains(t, resp.Reply, "outside the doctor's working hours")
	assert.Contains(t, resp.Reply, "next available slot", "decline suggests an alternative")

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "no appointment admitted for an after-hours intent")
}

func TestProcessRejectsDisabledDay(t *testing.T) {
	intent := validIntent()
	intent.Date = "2025-09-04" // Thursday, disabled in the default week
	intent.Time = "10:00 AM"
	client := &fakeClient{result: Result{Intent: intent}}
	a, _ := newTestAssistant(t, client, "")

	resp, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "book it"}})
	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
}

func TestProcessUnknownDoctorIntent(t *testing.T) {
	intent := validIntent()
	intent.DoctorID = "d99"
	client := &fakeClient{result: Result{Intent: intent}}
	a, _ := newTestAssistant(t, client, "")

	resp, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "book it"}})
	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.Contains(t, resp.Reply, "couldn't find that doctor")
}

func TestProcessIncompleteIntentAsksForField(t *testing.T) {
	intent := validIntent()
	intent.PatientPhone = ""
	client := &fakeClient{result: Result{Intent: intent}}
	a, _ := newTestAssistant(t, client, "")

	resp, err := a.Process(context.Background(), "c1", []Turn{{Role: RoleUser, Text: "book it"}})
	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.Contains(t, resp.Reply, "patientPhone")
}
