package schedule

import "errors"

var (
	ErrUnknownDay          = errors.New("unrecognized day name")
	ErrInvalidRange        = errors.New("slot start must be before end")
	ErrSlotIndexOutOfRange = errors.New("slot index out of range")
)

// AddSlot appends a shift to the named day and returns the updated week.
// The input week is not mutated. Overlapping or duplicate slots on the same
// day are accepted; overlap is treated as a data-quality concern at read
// time, not rejected at write time.
func AddSlot(week Week, day string, slot TimeRange) (Week, error) {
	if !KnownDay(day) {
		return nil, ErrUnknownDay
	}
	if slot.Start >= slot.End {
		return nil, ErrInvalidRange
	}

	out := week.Clone()
	for i := range out {
		if out[i].Day == day {
			out[i].Slots = append(out[i].Slots, slot)
			return out, nil
		}
	}
	// Week is missing the day entirely; treat like an unknown day.
	return nil, ErrUnknownDay
}

// RemoveSlot deletes the slot at index from the named day and returns the
// updated week. An out-of-range index fails with ErrSlotIndexOutOfRange.
func RemoveSlot(week Week, day string, index int) (Week, error) {
	if !KnownDay(day) {
		return nil, ErrUnknownDay
	}

	out := week.Clone()
	for i := range out {
		if out[i].Day != day {
			continue
		}
		if index < 0 || index >= len(out[i].Slots) {
			return nil, ErrSlotIndexOutOfRange
		}
		out[i].Slots = append(out[i].Slots[:index], out[i].Slots[index+1:]...)
		return out, nil
	}
	return nil, ErrUnknownDay
}

// ToggleDay flips the named day's enabled flag. Slots are left untouched so
// they survive a disable/re-enable cycle.
func ToggleDay(week Week, day string) (Week, error) {
	if !KnownDay(day) {
		return nil, ErrUnknownDay
	}

	out := week.Clone()
	for i := range out {
		if out[i].Day == day {
			out[i].Enabled = !out[i].Enabled
			return out, nil
		}
	}
	return nil, ErrUnknownDay
}
