package schedule

import (
	"sort"
	"time"
)

// DefaultScanHorizonDays bounds how far NextAvailableSlot looks ahead so a
// fully disabled week terminates instead of scanning forever.
const DefaultScanHorizonDays = 30

// IsBookable reports whether a doctor with the given week schedule can be
// booked on date at the given clock time. The weekday must be enabled and the
// time must fall inside at least one of that day's slots, inclusive at both
// ends. The resolver is pure: it never mutates the schedule.
func IsBookable(week Week, date time.Time, clock string) bool {
	t, err := ParseClock(clock)
	if err != nil {
		return false
	}

	day := date.Weekday().String()
	if !week.DayEnabled(day) {
		return false
	}

	for _, slot := range week.SlotsFor(day) {
		if slot.Start <= t && t <= slot.End {
			return true
		}
	}
	return false
}

// IsBookableOn is IsBookable for a "YYYY-MM-DD" date string. Malformed dates
// are simply not bookable.
func IsBookableOn(week Week, date, clock string) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return IsBookable(week, d, clock)
}

// NextAvailableSlot scans forward day by day from fromDate and returns the
// first slot ending at or after fromClock, together with the date it falls
// on. The scan is bounded by horizonDays (DefaultScanHorizonDays when <= 0);
// ok is false when the horizon is exhausted. The scan is deterministic, so
// restarting with the same inputs yields the same result.
func NextAvailableSlot(week Week, fromDate time.Time, fromClock string, horizonDays int) (time.Time, TimeRange, bool) {
	if horizonDays <= 0 {
		horizonDays = DefaultScanHorizonDays
	}

	cursor, err := ParseClock(fromClock)
	if err != nil {
		cursor = "00:00"
	}

	for offset := 0; offset < horizonDays; offset++ {
		date := fromDate.AddDate(0, 0, offset)
		day := date.Weekday().String()
		if !week.DayEnabled(day) {
			continue
		}

		slots := append([]TimeRange(nil), week.SlotsFor(day)...)
		// Stored slots carry no ordering guarantee.
		sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })

		for _, slot := range slots {
			if offset == 0 && slot.End < cursor {
				continue
			}
			return date, slot, true
		}
	}

	return time.Time{}, TimeRange{}, false
}
