package timetable

import "github.com/noah-isme/class-schedule-api/internal/models"

// DaysPerWeek is the number of day columns in the grid; day_of_week runs 1..7.
const DaysPerWeek = 7

// Placement identifies one grid cell.
type Placement struct {
	Day       int
	SlotIndex int
}

// Grid is the day x slot occupancy table produced by MapToGrid.
type Grid struct {
	slots    []TimeSlot
	cells    [DaysPerWeek][]*models.Course
	unplaced []string
}

// MapToGrid assigns every slot of every day to the first course of that day whose
// interval overlaps the slot. Courses with invalid days or times are never placed.
func MapToGrid(courses []models.Course, slots []TimeSlot) Grid {
	grid := Grid{slots: make([]TimeSlot, len(slots))}
	copy(grid.slots, slots)

	slotSpans := make([]Span, len(slots))
	slotValid := make([]bool, len(slots))
	for i, slot := range slots {
		span, err := slot.Span()
		slotSpans[i], slotValid[i] = span, err == nil
	}

	type entry struct {
		index  int
		course models.Course
		span   Span
	}
	var buckets [DaysPerWeek][]entry
	for idx, course := range courses {
		if course.DayOfWeek < 1 || course.DayOfWeek > DaysPerWeek {
			continue
		}
		span, err := ParseSpan(course.StartTime, course.EndTime)
		if err != nil {
			continue
		}
		buckets[course.DayOfWeek-1] = append(buckets[course.DayOfWeek-1], entry{index: idx, course: course, span: span})
	}

	// Keyed by input position; ids may be empty or repeated.
	placed := make([]bool, len(courses))
	for day := range buckets {
		grid.cells[day] = make([]*models.Course, len(slots))
		for i := range slots {
			if !slotValid[i] {
				continue
			}
			for j := range buckets[day] {
				if buckets[day][j].span.Overlaps(slotSpans[i]) {
					c := buckets[day][j].course
					grid.cells[day][i] = &c
					placed[buckets[day][j].index] = true
					break
				}
			}
		}
	}

	for i, course := range courses {
		if !placed[i] {
			grid.unplaced = append(grid.unplaced, course.ID)
		}
	}

	return grid
}

// Cell returns the course occupying (day, slotIndex), if any.
func (g Grid) Cell(day, slotIndex int) (models.Course, bool) {
	if day < 1 || day > DaysPerWeek || slotIndex < 0 || slotIndex >= len(g.slots) {
		return models.Course{}, false
	}
	row := g.cells[day-1]
	if slotIndex >= len(row) || row[slotIndex] == nil {
		return models.Course{}, false
	}
	return *row[slotIndex], true
}

// Slots returns the slot list the grid was built against.
func (g Grid) Slots() []TimeSlot {
	out := make([]TimeSlot, len(g.slots))
	copy(out, g.slots)
	return out
}

// Placements lists every cell holding the given course, in day then slot order.
func (g Grid) Placements(courseID string) []Placement {
	var out []Placement
	for day := 1; day <= DaysPerWeek; day++ {
		for i := range g.slots {
			if c, ok := g.Cell(day, i); ok && c.ID == courseID {
				out = append(out, Placement{Day: day, SlotIndex: i})
			}
		}
	}
	return out
}

// Unplaced returns the ids of courses that landed in no cell.
func (g Grid) Unplaced() []string {
	out := make([]string, len(g.unplaced))
	copy(out, g.unplaced)
	return out
}
