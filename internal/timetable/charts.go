package timetable

import (
	"fmt"
	"strconv"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// Chart kinds understood by renderers.
const (
	ChartKindPie = "pie"
	ChartKindBar = "bar"
)

// ChartPoint is one labelled value of a series.
type ChartPoint struct {
	Label   string
	Value   float64
	Color   string
	Tooltip string
}

// ChartSeries is a titled list of points in input order.
type ChartSeries struct {
	Kind   string
	Title  string
	Unit   string
	Points []ChartPoint
}

// ChartSet holds the proportion and hours charts. Both series are nil when NoData is set.
type ChartSet struct {
	NoData     bool
	Proportion *ChartSeries
	Hours      *ChartSeries
}

// BuildCharts turns a time distribution into the proportion (pie) and hours (bar) series.
// Colors come from colors so each course matches its grid cells.
func BuildCharts(dist []models.CourseTimeShare, colors *ColorAssigner) ChartSet {
	if len(dist) == 0 {
		return ChartSet{NoData: true}
	}
	if colors == nil {
		colors = NewColorAssigner(nil)
	}

	proportion := &ChartSeries{Kind: ChartKindPie, Title: "Time share", Unit: "%", Points: make([]ChartPoint, 0, len(dist))}
	hours := &ChartSeries{Kind: ChartKindBar, Title: "Hours per course", Unit: "h", Points: make([]ChartPoint, 0, len(dist))}

	for _, share := range dist {
		color := colors.ColorFor(share.CourseName)
		proportion.Points = append(proportion.Points, ChartPoint{
			Label:   share.CourseName,
			Value:   share.Percentage,
			Color:   color,
			Tooltip: fmt.Sprintf("%s: %.2f%% (%s hours)", share.CourseName, share.Percentage, FormatHours(share.Hours)),
		})
		hours.Points = append(hours.Points, ChartPoint{
			Label:   share.CourseName,
			Value:   share.Hours,
			Color:   color,
			Tooltip: fmt.Sprintf("%s hours (%.2f%%)", FormatHours(share.Hours), share.Percentage),
		})
	}

	return ChartSet{Proportion: proportion, Hours: hours}
}

// FormatHours prints hours with the shortest exact decimal form, e.g. 3.5 or 12.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
