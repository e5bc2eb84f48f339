package models

// CourseTimeShare is one course name's slice of the weekly teaching time.
type CourseTimeShare struct {
	CourseName string  `json:"course_name"`
	Minutes    int     `json:"minutes"`
	Hours      float64 `json:"hours"`
	Percentage float64 `json:"percentage"`
}

// Statistics summarises the weekly timetable.
type Statistics struct {
	TotalCourses           int               `json:"total_courses"`
	TotalHours             float64           `json:"total_hours"`
	CourseTimeDistribution []CourseTimeShare `json:"course_time_distribution"`
}
