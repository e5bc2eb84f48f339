package timetable

import (
	"strings"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
)

// SlotViews converts slots into their wire form.
func SlotViews(slots []TimeSlot) []dto.SlotView {
	out := make([]dto.SlotView, 0, len(slots))
	for _, slot := range slots {
		out = append(out, dto.SlotView{Index: slot.Index, Label: slot.Label, Start: slot.Start, End: slot.End})
	}
	return out
}

// CardInfo renders the secondary line of a course cell: time, then classroom and teacher when set.
func CardInfo(course models.Course) string {
	parts := []string{course.StartTime + "-" + course.EndTime}
	if room := models.TextOr(course.Classroom, ""); room != "" {
		parts = append(parts, room)
	}
	if teacher := models.TextOr(course.Teacher, ""); teacher != "" {
		parts = append(parts, teacher)
	}
	return strings.Join(parts, " | ")
}

// GridView renders grid with colors taken from colors.
func GridView(grid Grid, colors *ColorAssigner) dto.GridView {
	slots := grid.Slots()
	view := dto.GridView{
		Slots:    SlotViews(slots),
		Days:     make([]dto.DayColumn, 0, DaysPerWeek),
		Unplaced: grid.Unplaced(),
	}

	for day := 1; day <= DaysPerWeek; day++ {
		column := dto.DayColumn{Day: day, Name: DayName(day), Cells: make([]dto.GridCell, 0, len(slots))}
		for i := range slots {
			cell := dto.GridCell{SlotIndex: i}
			if course, ok := grid.Cell(day, i); ok {
				gradient := colors.Gradient(course.CourseName)
				cell.Course = &dto.CourseCard{
					CourseID:  course.ID,
					Name:      course.CourseName,
					Info:      CardInfo(course),
					Color:     gradient.From,
					ColorDark: gradient.To,
				}
			}
			column.Cells = append(column.Cells, cell)
		}
		view.Days = append(view.Days, column)
	}
	return view
}

// ChartsView combines statistics totals with the chart set.
func ChartsView(stats models.Statistics, set ChartSet) dto.ChartsView {
	return dto.ChartsView{
		TotalCourses: stats.TotalCourses,
		TotalHours:   stats.TotalHours,
		NoData:       set.NoData,
		Proportion:   seriesView(set.Proportion),
		Hours:        seriesView(set.Hours),
	}
}

func seriesView(series *ChartSeries) *dto.ChartSeriesView {
	if series == nil {
		return nil
	}
	out := &dto.ChartSeriesView{Kind: series.Kind, Title: series.Title, Unit: series.Unit, Points: make([]dto.ChartPointView, 0, len(series.Points))}
	for _, p := range series.Points {
		out.Points = append(out.Points, dto.ChartPointView{Label: p.Label, Value: p.Value, Color: p.Color, Tooltip: p.Tooltip})
	}
	return out
}
