package turf

import (
	"fmt"
	"time"
)

// ClockLayout is the wire format for clock times within a day.
const ClockLayout = "15:04"

// ParseClock parses a zero-padded "HH:mm" clock string.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t, nil
}

// ClockMinutes returns the number of minutes between two "HH:mm" clock
// strings. The result is negative when end precedes start.
func ClockMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return int(e.Sub(s).Minutes()), nil
}

// GenerateSlots derives the bookable slots for one day of operation.
// Slots start at openTime, each lasts slotDuration minutes, and generation
// stops at closeTime; a slot whose end would pass closing time is discarded
// rather than truncated. The result is ordered, pairwise non-overlapping and
// contiguous (each slot starts where the previous one ends).
func GenerateSlots(openTime, closeTime string, slotDuration int) ([]Slot, error) {
	if slotDuration <= 0 {
		return nil, ErrInvalidSlotDuration
	}

	open, err := ParseClock(openTime)
	if err != nil {
		return nil, ErrInvalidOperatingWindow
	}
	close, err := ParseClock(closeTime)
	if err != nil {
		return nil, ErrInvalidOperatingWindow
	}
	if close.Before(open) {
		return nil, ErrInvalidOperatingWindow
	}

	dur := time.Duration(slotDuration) * time.Minute

	var slots []Slot
	for cur := open; ; cur = cur.Add(dur) {
		end := cur.Add(dur)
		if end.After(close) {
			break
		}
		slots = append(slots, Slot{
			StartTime: cur.Format(ClockLayout),
			EndTime:   end.Format(ClockLayout),
		})
	}

	return slots, nil
}

// BuildCalendar expands a single day's slot sequence into a forward calendar
// of the given length starting at from, with every slot available. The day
// component of from is kept as-is; callers normalize it to the booking zone.
func BuildCalendar(from time.Time, days int, slots []Slot) []DaySlots {
	calendar := make([]DaySlots, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		grid := make([]GridSlot, len(slots))
		for j, s := range slots {
			grid[j] = GridSlot{
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Status:    SlotAvailable,
			}
		}
		calendar = append(calendar, DaySlots{Day: day, Slots: grid})
	}
	return calendar
}
