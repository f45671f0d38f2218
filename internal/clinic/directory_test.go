package clinic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

func TestDirectoryLookups(t *testing.T) {
	dir := NewDirectory(DefaultClinics())

	c, err := dir.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "Evergreen Family Clinic", c.Name)

	_, err = dir.Get("nope")
	assert.ErrorIs(t, err, ErrClinicNotFound)

	doc, err := dir.GetDoctor("c1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Sarah Smith", doc.Name)

	_, err = dir.GetDoctor("c1", "d3")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestDirectorySnapshotsAreCopies(t *testing.T) {
	dir := NewDirectory(DefaultClinics())

	c, err := dir.Get("c1")
	require.NoError(t, err)
	c.Doctors[0].Week[0].Enabled = false

	fresh, err := dir.DoctorWeek("c1", "d1")
	require.NoError(t, err)
	assert.True(t, fresh.DayEnabled("Monday"), "mutating a snapshot must not touch the directory")
}

func TestUpdateDoctorWeek(t *testing.T) {
	dir := NewDirectory(DefaultClinics())

	updated, err := dir.UpdateDoctorWeek("c1", "d1", func(w schedule.Week) (schedule.Week, error) {
		return schedule.ToggleDay(w, "Monday")
	})
	require.NoError(t, err)
	assert.False(t, updated.DayEnabled("Monday"))

	stored, err := dir.DoctorWeek("c1", "d1")
	require.NoError(t, err)
	assert.False(t, stored.DayEnabled("Monday"))
}

func TestUpdateDoctorWeekFailedEditLeavesStateUnchanged(t *testing.T) {
	dir := NewDirectory(DefaultClinics())

	_, err := dir.UpdateDoctorWeek("c1", "d1", func(w schedule.Week) (schedule.Week, error) {
		return schedule.AddSlot(w, "Funday", schedule.TimeRange{Start: "09:00", End: "10:00"})
	})
	assert.ErrorIs(t, err, schedule.ErrUnknownDay)

	stored, err := dir.DoctorWeek("c1", "d1")
	require.NoError(t, err)
	assert.Len(t, stored.SlotsFor("Monday"), 2)
}

func TestStaffRoster(t *testing.T) {
	dir := NewDirectory(DefaultClinics())

	require.NoError(t, dir.AddStaff("c2", Staff{ID: "s9", Name: "Rita Desk", Role: RoleReceptionist}))

	c, err := dir.Get("c2")
	require.NoError(t, err)
	require.Len(t, c.Staff, 1)

	require.NoError(t, dir.RemoveStaff("c2", "s9"))
	assert.ErrorIs(t, dir.RemoveStaff("c2", "s9"), ErrStaffNotFound)
}

func TestAssistantContextIncludesGranularSchedules(t *testing.T) {
	dir := NewDirectory(DefaultClinics())

	ctx, err := dir.AssistantContext("c1")
	require.NoError(t, err)

	assert.Contains(t, ctx, "Evergreen Family Clinic")
	assert.Contains(t, ctx, "Dr. Sarah Smith (ID: d1")
	assert.Contains(t, ctx, "Monday: 09:00-12:00, 14:00-17:00")
	assert.Contains(t, ctx, "Thursday: unavailable")
	assert.True(t, strings.Contains(ctx, "Rating: 4.8 stars"))
}
