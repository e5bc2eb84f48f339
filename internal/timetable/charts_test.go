package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

func TestBuildChartsNoData(t *testing.T) {
	set := BuildCharts(nil, NewColorAssigner(nil))
	assert.True(t, set.NoData)
	assert.Nil(t, set.Proportion)
	assert.Nil(t, set.Hours)
}

func TestBuildChartsSeries(t *testing.T) {
	dist := []models.CourseTimeShare{
		{CourseName: "Physics", Minutes: 210, Hours: 3.5, Percentage: 70},
		{CourseName: "Math", Minutes: 90, Hours: 1.5, Percentage: 30},
	}

	set := BuildCharts(dist, NewColorAssigner(nil))

	require.False(t, set.NoData)
	require.Len(t, set.Proportion.Points, 2)
	require.Len(t, set.Hours.Points, 2)
	assert.Equal(t, ChartKindPie, set.Proportion.Kind)
	assert.Equal(t, ChartKindBar, set.Hours.Kind)

	assert.Equal(t, "Physics", set.Proportion.Points[0].Label)
	assert.Equal(t, 70.0, set.Proportion.Points[0].Value)
	assert.Equal(t, "Physics: 70.00% (3.5 hours)", set.Proportion.Points[0].Tooltip)
	assert.Equal(t, 3.5, set.Hours.Points[0].Value)
	assert.Equal(t, "3.5 hours (70.00%)", set.Hours.Points[0].Tooltip)
	assert.Equal(t, set.Proportion.Points[1].Color, set.Hours.Points[1].Color)
}

func TestBuildChartsSharesGridColors(t *testing.T) {
	colors := NewColorAssigner(nil)
	colors.Prime([]models.Course{{CourseName: "Math"}, {CourseName: "Physics"}})

	set := BuildCharts([]models.CourseTimeShare{
		{CourseName: "Physics", Hours: 3, Percentage: 75},
		{CourseName: "Math", Hours: 1, Percentage: 25},
	}, colors)

	assert.Equal(t, colors.ColorFor("Physics"), set.Proportion.Points[0].Color)
	assert.Equal(t, DefaultPalette[1], set.Proportion.Points[0].Color)
	assert.Equal(t, DefaultPalette[0], set.Hours.Points[1].Color)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "12", FormatHours(12))
	assert.Equal(t, "0.75", FormatHours(0.75))
}
