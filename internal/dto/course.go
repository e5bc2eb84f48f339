package dto

// CourseRequest is the payload for creating or replacing a course.
type CourseRequest struct {
	CourseName string   `json:"course_name" validate:"required,max=200"`
	Teacher    *string  `json:"teacher,omitempty" validate:"omitempty,max=100"`
	Classroom  *string  `json:"classroom,omitempty" validate:"omitempty,max=100"`
	DayOfWeek  int      `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime  string   `json:"start_time" validate:"required,hhmm"`
	EndTime    string   `json:"end_time" validate:"required,hhmm"`
	WeekRange  *string  `json:"week_range,omitempty" validate:"omitempty,max=100"`
	Credit     *float64 `json:"credit,omitempty" validate:"omitempty,min=0,max=99"`
	Notes      *string  `json:"notes,omitempty"`
}
