// Package timetable maps weekly course occurrences onto the fixed display grid and
// derives the presentation data (colors, chart series, editor state) shared by every view.
package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every wall-clock value handled by the package.
const MinutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" wall-clock string into minutes since midnight.
func ParseClock(raw string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", raw)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid clock %q: hour out of range", raw)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid clock %q: minute out of range", raw)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidClock reports whether raw parses as "HH:MM".
func ValidClock(raw string) bool {
	_, err := ParseClock(raw)
	return err == nil
}

// NormalizeClock re-renders a valid clock in canonical zero-padded form ("8:05" -> "08:05").
func NormalizeClock(raw string) (string, error) {
	minutes, err := ParseClock(raw)
	if err != nil {
		return "", err
	}
	return FormatClock(minutes), nil
}

// Overlaps applies the half-open overlap rule to [aStart, aEnd) and [bStart, bEnd).
// Empty intervals never overlap anything.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	if aStart >= aEnd || bStart >= bEnd {
		return false
	}
	return aStart < bEnd && aEnd > bStart
}

// Span is a parsed half-open time-of-day interval.
type Span struct {
	Start int
	End   int
}

// ParseSpan parses a start/end pair of "HH:MM" strings.
func ParseSpan(start, end string) (Span, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Span{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Span{}, err
	}
	return Span{Start: s, End: e}, nil
}

// Minutes returns the interval length, or zero for an empty or inverted interval.
func (s Span) Minutes() int {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one minute.
func (s Span) Overlaps(other Span) bool {
	return Overlaps(s.Start, s.End, other.Start, other.End)
}
