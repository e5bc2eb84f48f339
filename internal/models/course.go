package models

import (
	"strings"
	"time"
)

// Course is one weekly-recurring class occurrence.
type Course struct {
	ID         string    `db:"id" json:"id"`
	CourseName string    `db:"course_name" json:"course_name"`
	Teacher    *string   `db:"teacher" json:"teacher"`
	Classroom  *string   `db:"classroom" json:"classroom"`
	DayOfWeek  int       `db:"day_of_week" json:"day_of_week"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	WeekRange  *string   `db:"week_range" json:"week_range"`
	Credit     *float64  `db:"credit" json:"credit"`
	Notes      *string   `db:"notes" json:"notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CourseConflict describes an existing course whose time range collides with a request.
type CourseConflict struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	DayOfWeek  int    `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// CourseConflictError is returned when a course overlaps another course on the same day.
type CourseConflictError struct {
	Message  string         `json:"message"`
	Conflict CourseConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *CourseConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// TextOr returns the trimmed value or the placeholder when it is missing or blank.
func TextOr(value *string, placeholder string) string {
	if value == nil {
		return placeholder
	}
	if trimmed := strings.TrimSpace(*value); trimmed != "" {
		return trimmed
	}
	return placeholder
}

// StringPtr returns nil for blank input, otherwise a pointer to the trimmed value.
func StringPtr(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
