package viewer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/timetable"
)

// Placeholders printed for missing values.
const (
	NoClassroom = "No classroom"
	NoTeacher   = "No teacher"
	EmptyCell   = "-"
	NoData      = "No data"
	NoUpcoming  = "No upcoming courses"
)

// Renderer writes the viewer's views as aligned text.
type Renderer struct {
	w io.Writer
}

// NewRenderer builds a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes the grid, the upcoming list and the charts.
func (r *Renderer) Render(snap Snapshot) error {
	if err := r.Grid(snap.Grid); err != nil {
		return err
	}
	fmt.Fprintln(r.w) //nolint:errcheck
	if err := r.Upcoming(snap.Upcoming); err != nil {
		return err
	}
	fmt.Fprintln(r.w) //nolint:errcheck
	return r.Charts(snap.Stats, snap.Charts)
}

// Grid writes one row per period and one column per weekday.
func (r *Renderer) Grid(view dto.GridView) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)

	header := []string{"Period"}
	for _, day := range view.Days {
		header = append(header, day.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")) //nolint:errcheck

	for i, slot := range view.Slots {
		row := []string{fmt.Sprintf("%d %s-%s", i+1, slot.Start, slot.End)}
		for _, day := range view.Days {
			row = append(row, cellText(day, i))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")) //nolint:errcheck
	}
	return tw.Flush()
}

func cellText(day dto.DayColumn, slotIndex int) string {
	if slotIndex >= len(day.Cells) || day.Cells[slotIndex].Course == nil {
		return EmptyCell
	}
	return day.Cells[slotIndex].Course.Name
}

// Upcoming writes the upcoming list, one course per line.
func (r *Renderer) Upcoming(courses []models.Course) error {
	fmt.Fprintln(r.w, "Upcoming") //nolint:errcheck
	if len(courses) == 0 {
		_, err := fmt.Fprintln(r.w, NoUpcoming)
		return err
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%s %s-%s\t%s | %s\n", //nolint:errcheck
			c.CourseName,
			timetable.DayName(c.DayOfWeek), c.StartTime, c.EndTime,
			models.TextOr(c.Classroom, NoClassroom), models.TextOr(c.Teacher, NoTeacher))
	}
	return tw.Flush()
}

// Charts writes the totals and both chart series, or NoData for an empty distribution.
func (r *Renderer) Charts(stats *models.Statistics, set timetable.ChartSet) error {
	if stats != nil {
		fmt.Fprintf(r.w, "Courses: %d  Hours: %s\n", stats.TotalCourses, timetable.FormatHours(stats.TotalHours)) //nolint:errcheck
	}
	if set.NoData || set.Proportion == nil {
		_, err := fmt.Fprintln(r.w, NoData)
		return err
	}
	for _, series := range []*timetable.ChartSeries{set.Proportion, set.Hours} {
		if series == nil {
			continue
		}
		fmt.Fprintln(r.w, series.Title) //nolint:errcheck
		tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
		for _, p := range series.Points {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Label, p.Color, p.Tooltip) //nolint:errcheck
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
