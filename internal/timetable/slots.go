package timetable

import "fmt"

// TimeSlot is one fixed display period of the weekly grid.
type TimeSlot struct {
	// Index is the 1-based period number shown to users.
	Index int
	Label string
	Start string
	End   string
}

// Span returns the parsed interval of the slot.
func (s TimeSlot) Span() (Span, error) {
	return ParseSpan(s.Start, s.End)
}

// 45 minute periods; 30 minute breaks after periods 2 and 6, 10 minutes elsewhere.
var defaultSlots = []TimeSlot{
	newSlot(1, "08:00", "08:45"),
	newSlot(2, "08:55", "09:40"),
	newSlot(3, "10:10", "10:55"),
	newSlot(4, "11:05", "11:50"),
	newSlot(5, "14:00", "14:45"),
	newSlot(6, "14:55", "15:40"),
	newSlot(7, "16:10", "16:55"),
	newSlot(8, "17:05", "17:50"),
}

func newSlot(index int, start, end string) TimeSlot {
	return TimeSlot{
		Index: index,
		Label: fmt.Sprintf("Period %d %s-%s", index, start, end),
		Start: start,
		End:   end,
	}
}

// DefaultSlots returns a copy of the eight fixed teaching periods.
func DefaultSlots() []TimeSlot {
	out := make([]TimeSlot, len(defaultSlots))
	copy(out, defaultSlots)
	return out
}

// PeriodStartingAt returns the 1-based period whose start equals clock, or 0.
func PeriodStartingAt(slots []TimeSlot, clock string) int {
	want, err := ParseClock(clock)
	if err != nil {
		return 0
	}
	for i, slot := range slots {
		if start, err := ParseClock(slot.Start); err == nil && start == want {
			return i + 1
		}
	}
	return 0
}

// PeriodEndingAt returns the 1-based period whose end equals clock, or 0.
func PeriodEndingAt(slots []TimeSlot, clock string) int {
	want, err := ParseClock(clock)
	if err != nil {
		return 0
	}
	for i, slot := range slots {
		if end, err := ParseClock(slot.End); err == nil && end == want {
			return i + 1
		}
	}
	return 0
}

// DayName returns the English weekday for day_of_week 1 (Monday) through 7 (Sunday).
func DayName(day int) string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if day < 1 || day > len(names) {
		return ""
	}
	return names[day-1]
}
