package schedule

// TimeRange is one contiguous working interval within a day, using
// fixed-width "HH:MM" 24-hour clock strings. Because the format is
// zero-padded, lexicographic comparison orders times correctly.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule is a single weekday's availability. When Enabled is false the
// slots are inert: they are kept (so re-enabling a day restores its shifts)
// but never offered or validated as bookable.
type DaySchedule struct {
	Day     string      `json:"day"`
	Enabled bool        `json:"enabled"`
	Slots   []TimeRange `json:"slots"`
}

// Week is a doctor's recurring weekly availability: exactly one DaySchedule
// per weekday, Monday through Sunday. The model itself performs no sorting or
// overlap merging; it is a plain structural container.
type Week []DaySchedule

// DayNames lists the recognized weekday names in storage order.
var DayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// KnownDay reports whether name is one of the seven recognized weekday names.
func KnownDay(name string) bool {
	for _, d := range DayNames {
		if d == name {
			return true
		}
	}
	return false
}

// DefaultWeek returns the seed schedule assigned to newly created doctors:
// Mon/Tue/Wed/Fri enabled with morning-centric shifts, Thu/Sat/Sun off.
func DefaultWeek() Week {
	return Week{
		{Day: "Monday", Enabled: true, Slots: []TimeRange{{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "17:00"}}},
		{Day: "Tuesday", Enabled: true, Slots: []TimeRange{{Start: "10:00", End: "15:00"}}},
		{Day: "Wednesday", Enabled: true, Slots: []TimeRange{{Start: "09:00", End: "13:00"}}},
		{Day: "Thursday", Enabled: false, Slots: []TimeRange{}},
		{Day: "Friday", Enabled: true, Slots: []TimeRange{{Start: "09:00", End: "12:00"}}},
		{Day: "Saturday", Enabled: false, Slots: []TimeRange{}},
		{Day: "Sunday", Enabled: false, Slots: []TimeRange{}},
	}
}

// DayEnabled reports whether the named day exists in the week and is enabled.
func (w Week) DayEnabled(day string) bool {
	for _, d := range w {
		if d.Day == day {
			return d.Enabled
		}
	}
	return false
}

// SlotsFor returns the day's slots, or nil when the day is disabled or absent.
func (w Week) SlotsFor(day string) []TimeRange {
	for _, d := range w {
		if d.Day == day {
			if !d.Enabled {
				return nil
			}
			return d.Slots
		}
	}
	return nil
}

// Clone returns a deep copy so editors can return updated schedules without
// aliasing the caller's slot slices.
func (w Week) Clone() Week {
	out := make(Week, len(w))
	for i, d := range w {
		slots := make([]TimeRange, len(d.Slots))
		copy(slots, d.Slots)
		out[i] = DaySchedule{Day: d.Day, Enabled: d.Enabled, Slots: slots}
	}
	return out
}
