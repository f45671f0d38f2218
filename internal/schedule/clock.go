package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// clockLayouts covers the display formats bookings arrive with. Chat and UI
// channels send 12-hour strings like "10:00 AM"; schedules store 24-hour.
var clockLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
}

// ParseClock normalizes a display time string into canonical "HH:MM" 24-hour
// form. It accepts both 24-hour and 12-hour AM/PM inputs.
func ParseClock(s string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(clockLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", s)
}

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return t, nil
}

// FormatDate renders t in the "YYYY-MM-DD" form used across the service.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
