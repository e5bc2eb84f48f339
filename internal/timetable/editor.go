package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
)

var (
	// ErrPeriodRequired is returned when the start or end period is unset.
	ErrPeriodRequired = errors.New("start and end periods are required")
	// ErrPeriodOutOfRange is returned when a period does not name a slot.
	ErrPeriodOutOfRange = errors.New("period out of range")
	// ErrPeriodOrder is returned when the end period precedes the start period.
	ErrPeriodOrder = errors.New("end period must not precede start period")
	// ErrNameRequired is returned for a blank course name.
	ErrNameRequired = errors.New("course name is required")
	// ErrDayOutOfRange is returned when the weekday is outside 1..7.
	ErrDayOutOfRange = errors.New("day of week must be between 1 and 7")
	// ErrNotEditing is returned by operations that need a selected course.
	ErrNotEditing = errors.New("no course selected")
)

// EditorState records whether the editor creates a new course or edits an existing one.
type EditorState struct {
	courseID string
}

// Adding is the state for a new course.
func Adding() EditorState { return EditorState{} }

// Editing is the state for the course with the given id.
func Editing(courseID string) EditorState { return EditorState{courseID: courseID} }

// IsEditing reports whether a course is selected.
func (s EditorState) IsEditing() bool { return s.courseID != "" }

// CourseID returns the selected course id, or "" while adding.
func (s EditorState) CourseID() string { return s.courseID }

func (s EditorState) String() string {
	if s.IsEditing() {
		return "editing " + s.courseID
	}
	return "adding"
}

// CourseForm is the editor input. Times are chosen as 1-based periods.
type CourseForm struct {
	Name        string
	Teacher     string
	Classroom   string
	Day         int
	StartPeriod int
	EndPeriod   int
	WeekRange   string
	Credit      string
	Notes       string
}

// Validate applies the editor's form checks against slots.
func (f CourseForm) Validate(slots []TimeSlot) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if f.Day < 1 || f.Day > DaysPerWeek {
		return ErrDayOutOfRange
	}
	if f.StartPeriod == 0 || f.EndPeriod == 0 {
		return ErrPeriodRequired
	}
	if f.StartPeriod < 1 || f.StartPeriod > len(slots) || f.EndPeriod < 1 || f.EndPeriod > len(slots) {
		return fmt.Errorf("%w: valid periods are 1..%d", ErrPeriodOutOfRange, len(slots))
	}
	if f.EndPeriod < f.StartPeriod {
		return ErrPeriodOrder
	}
	if _, err := f.credit(); err != nil {
		return err
	}
	return nil
}

// ToRequest validates the form and converts periods into times: the start slot's start
// and the end slot's end.
func (f CourseForm) ToRequest(slots []TimeSlot) (dto.CourseRequest, error) {
	if err := f.Validate(slots); err != nil {
		return dto.CourseRequest{}, err
	}
	credit, _ := f.credit()

	return dto.CourseRequest{
		CourseName: strings.TrimSpace(f.Name),
		Teacher:    models.StringPtr(f.Teacher),
		Classroom:  models.StringPtr(f.Classroom),
		DayOfWeek:  f.Day,
		StartTime:  slots[f.StartPeriod-1].Start,
		EndTime:    slots[f.EndPeriod-1].End,
		WeekRange:  models.StringPtr(f.WeekRange),
		Credit:     credit,
		Notes:      models.StringPtr(f.Notes),
	}, nil
}

func (f CourseForm) credit() (*float64, error) {
	raw := strings.TrimSpace(f.Credit)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid credit %q", f.Credit)
	}
	return &value, nil
}

// FormFromCourse fills the editor from an existing course. A period is 0 when the course
// time does not sit on a slot boundary.
func FormFromCourse(course models.Course, slots []TimeSlot) CourseForm {
	form := CourseForm{
		Name:        course.CourseName,
		Teacher:     models.TextOr(course.Teacher, ""),
		Classroom:   models.TextOr(course.Classroom, ""),
		Day:         course.DayOfWeek,
		StartPeriod: PeriodStartingAt(slots, course.StartTime),
		EndPeriod:   PeriodEndingAt(slots, course.EndTime),
		WeekRange:   models.TextOr(course.WeekRange, ""),
		Notes:       models.TextOr(course.Notes, ""),
	}
	if course.Credit != nil {
		form.Credit = strconv.FormatFloat(*course.Credit, 'f', -1, 64)
	}
	return form
}
