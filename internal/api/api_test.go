package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logging.New("error")
	dir := clinic.NewDirectory(clinic.DefaultClinics())

	apptSeq, visitSeq := 0, 0
	svc := appointment.NewService(appointment.NewMemoryRepository(), dir, logger,
		appointment.WithIDGenerators(
			func() string { apptSeq++; return fmt.Sprintf("apt-%d", apptSeq) },
			func() string { visitSeq++; return fmt.Sprintf("v-%d", visitSeq) },
		),
		appointment.WithClock(func() time.Time {
			return time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
		}),
	)

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Bookings:    svc,
		Directory:   dir,
		Logger:      logger,
		HorizonDays: 30,
		Env:         "test",
		Version:     "test",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func validCreateBody() map[string]any {
	return map[string]any{
		"clinic_id":     "c1",
		"doctor_id":     "d1",
		"patient_name":  "John Doe",
		"patient_phone": "+15550100",
		"date":          "2025-09-01",
		"time":          "10:00 AM",
	}
}

func TestCreateAppointment(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", validCreateBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(body, &appt))
	assert.Equal(t, "apt-1", appt.ID)
	assert.Equal(t, appointment.StatusPending, appt.Status)
	assert.Equal(t, "General Checkup", appt.Reason)
	assert.Equal(t, appointment.SourceWeb, appt.Source)
}

func TestCreateAppointmentConfirmed(t *testing.T) {
	srv := newTestServer(t)

	req := validCreateBody()
	req["confirmed"] = true
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(body, &appt))
	assert.Equal(t, appointment.StatusConfirmed, appt.Status)
}

func TestCreateAppointmentValidation(t *testing.T) {
	srv := newTestServer(t)

	req := validCreateBody()
	delete(req, "patient_phone")
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "validation_error", errResp.Error)
	assert.Equal(t, "patientPhone", errResp.Field)
}

func TestCreateAppointmentUnknownDoctor(t *testing.T) {
	srv := newTestServer(t)

	req := validCreateBody()
	req["doctor_id"] = "nope"
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", req)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "doctor_not_found", errResp.Error)
}

func TestCreateAppointmentEnforcedAvailability(t *testing.T) {
	srv := newTestServer(t)

	// 2025-09-01 is a Monday; 01:00 PM falls in the midday gap.
	req := validCreateBody()
	req["time"] = "01:00 PM"
	req["enforce_availability"] = true
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", req)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "outside_working_hours", errResp.Error)

	// Without enforcement the same booking is accepted as a walk-in override.
	delete(req, "enforce_availability")
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/appointments", req)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestListAppointmentsMostRecentFirst(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/appointments", validCreateBody())
	second := validCreateBody()
	second["patient_name"] = "Jane Roe"
	doJSON(t, http.MethodPost, srv.URL+"/appointments", second)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/appointments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var appts []appointment.Appointment
	require.NoError(t, json.Unmarshal(body, &appts))
	require.Len(t, appts, 2)
	assert.Equal(t, "Jane Roe", appts[0].PatientName)
	assert.Equal(t, "John Doe", appts[1].PatientName)
}

func TestLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", validCreateBody())
	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(body, &appt))

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments/"+appt.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &appt))
	assert.Equal(t, appointment.StatusConfirmed, appt.Status)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/appointments/"+appt.ID+"/check-in",
		map[string]string{"doctor_id": "d1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &appt))
	assert.Equal(t, appointment.StatusCheckedIn, appt.Status)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/appointments/"+appt.ID+"/checkout",
		map[string]any{
			"diagnosis": "Seasonal flu",
			"treatment": "Rest and fluids",
			"vitals":    map[string]string{"bp": "120/80", "weight": "70kg", "temp": "36.5C"},
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var visit appointment.VisitRecord
	require.NoError(t, json.Unmarshal(body, &visit))
	assert.Equal(t, "v-1", visit.ID)
	assert.Equal(t, appt.ID, visit.AppointmentID)
	require.NotNil(t, visit.Vitals)
	assert.Equal(t, "120/80", visit.Vitals.BP)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/appointments/"+appt.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &appt))
	assert.Equal(t, appointment.StatusCheckedOut, appt.Status)
}

func TestCancelTerminalConflict(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", validCreateBody())
	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(body, &appt))

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/appointments/"+appt.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/appointments/"+appt.ID+"/confirm", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "invalid_status_transition", errResp.Error)
}

func TestCheckInDoctorMismatch(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", validCreateBody())
	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(body, &appt))

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments/"+appt.ID+"/check-in",
		map[string]string{"doctor_id": "d2"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "doctor_mismatch", errResp.Error)
}

func TestGetAppointmentNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/appointments/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListClinics(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/clinics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var clinics []clinic.Clinic
	require.NoError(t, json.Unmarshal(body, &clinics))
	require.Len(t, clinics, 2)
	assert.Equal(t, "c1", clinics[0].ID)
}

func TestScheduleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/clinics/c1/doctors/d1"

	resp, body := doJSON(t, http.MethodGet, base+"/schedule", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sched ScheduleResponse
	require.NoError(t, json.Unmarshal(body, &sched))
	require.Len(t, sched.Week, 7)

	resp, body = doJSON(t, http.MethodPost, base+"/schedule/Saturday/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sched))
	assert.True(t, sched.Week.DayEnabled("Saturday"))

	resp, body = doJSON(t, http.MethodPost, base+"/schedule/Saturday/slots",
		map[string]string{"start": "09:00", "end": "11:00"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sched))
	assert.Equal(t, []string{"09:00"}, slotStarts(sched.Week.SlotsFor("Saturday")))

	resp, body = doJSON(t, http.MethodDelete, base+"/schedule/Saturday/slots/0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sched))
	assert.Empty(t, sched.Week.SlotsFor("Saturday"))

	resp, body = doJSON(t, http.MethodPost, base+"/schedule/Blursday/toggle", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "unknown_day", errResp.Error)
}

func slotStarts(slots []schedule.TimeRange) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	return starts
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/clinics/c1/doctors/d1/availability"

	resp, body := doJSON(t, http.MethodGet, base+"?date=2025-09-01&time=10:00+AM", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var avail AvailabilityResponse
	require.NoError(t, json.Unmarshal(body, &avail))
	assert.True(t, avail.Available)

	// Thursday is disabled; the next open day is Friday morning.
	resp, body = doJSON(t, http.MethodGet, base+"?date=2025-09-04&time=10:00+AM", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &avail))
	assert.False(t, avail.Available)
	assert.Equal(t, "2025-09-05", avail.NextDate)
	assert.Equal(t, "09:00", avail.NextStart)

	resp, _ = doJSON(t, http.MethodGet, base+"?date=2025-09-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStaffEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/clinics/c1/staff",
		map[string]string{"id": "s9", "name": "Amara Osei", "role": "NURSE"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/clinics/c1/staff/s9", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/clinics/c1/staff/s9", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatDisabled(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/clinics/c1/chat",
		map[string]any{"messages": []map[string]string{{"role": "user", "text": "hi"}}})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "assistant_disabled", errResp.Error)
}

func TestSimulateWhatsApp(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/channels/whatsapp/simulate", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(body, &appt))
	assert.Equal(t, appointment.SourceWhatsApp, appt.Source)
	assert.Equal(t, appointment.StatusPending, appt.Status)
	assert.NotEmpty(t, appt.PatientName)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ready ReadinessResponse
	require.NoError(t, json.Unmarshal(body, &ready))
	assert.Equal(t, "disabled", ready.Dependencies["postgres"])
	assert.Equal(t, "disabled", ready.Dependencies["redis"])
}
