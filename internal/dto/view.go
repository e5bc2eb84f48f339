package dto

// SlotView is one display period row of the weekly grid.
type SlotView struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// CourseCard is the rendered content of an occupied grid cell.
type CourseCard struct {
	CourseID  string `json:"course_id"`
	Name      string `json:"name"`
	Info      string `json:"info"`
	Color     string `json:"color"`
	ColorDark string `json:"color_dark"`
}

// GridCell is one day × slot intersection; Course is nil for an empty cell.
type GridCell struct {
	SlotIndex int         `json:"slot_index"`
	Course    *CourseCard `json:"course,omitempty"`
}

// DayColumn holds the cells of one weekday in slot order.
type DayColumn struct {
	Day   int        `json:"day"`
	Name  string     `json:"name"`
	Cells []GridCell `json:"cells"`
}

// GridView is the weekly schedule grid ready for rendering.
type GridView struct {
	Slots    []SlotView  `json:"slots"`
	Days     []DayColumn `json:"days"`
	Unplaced []string    `json:"unplaced_course_ids,omitempty"`
}

// ChartPointView is one labelled value of a chart series.
type ChartPointView struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
}

// ChartSeriesView is a chart ready for rendering.
type ChartSeriesView struct {
	Kind   string           `json:"kind"`
	Title  string           `json:"title"`
	Unit   string           `json:"unit"`
	Points []ChartPointView `json:"points"`
}

// ChartsView bundles the statistics totals with the proportion and hours charts.
type ChartsView struct {
	TotalCourses int              `json:"total_courses"`
	TotalHours   float64          `json:"total_hours"`
	NoData       bool             `json:"no_data"`
	Proportion   *ChartSeriesView `json:"proportion,omitempty"`
	Hours        *ChartSeriesView `json:"hours,omitempty"`
}

// ScheduleView renders the grid and charts with one shared color assignment.
type ScheduleView struct {
	Grid   GridView   `json:"grid"`
	Charts ChartsView `json:"charts"`
}
