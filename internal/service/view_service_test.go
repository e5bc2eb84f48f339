package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/timetable"
)

func newViewServiceFixture(repo *memoryCourseRepo) *ViewService {
	stats := NewStatisticsService(repo, nil, time.Minute, nil)
	return NewViewService(repo, stats, nil, nil)
}

func TestViewServiceGrid(t *testing.T) {
	repo := newMemoryCourseRepo(
		sampleCourse("c1", "Math", 1, "08:00", "08:45"),
		sampleCourse("c2", "Physics", 1, "08:00", "09:40"),
	)

	grid, err := newViewServiceFixture(repo).Grid(context.Background())
	require.NoError(t, err)

	monday := grid.Days[0]
	require.NotNil(t, monday.Cells[0].Course)
	assert.Equal(t, "c1", monday.Cells[0].Course.CourseID, "first match wins")
	require.NotNil(t, monday.Cells[1].Course)
	assert.Equal(t, "c2", monday.Cells[1].Course.CourseID)
	assert.Len(t, grid.Slots, 8)
}

func TestViewServiceSharesColorsAcrossGridAndCharts(t *testing.T) {
	// Physics has more minutes, so it leads the chart while Math leads the grid.
	repo := newMemoryCourseRepo(
		sampleCourse("c1", "Math", 1, "08:00", "08:45"),
		sampleCourse("c2", "Physics", 2, "08:00", "11:50"),
	)

	view, err := newViewServiceFixture(repo).Schedule(context.Background())
	require.NoError(t, err)

	mathCell := view.Grid.Days[0].Cells[0].Course
	physicsCell := view.Grid.Days[1].Cells[0].Course
	require.NotNil(t, mathCell)
	require.NotNil(t, physicsCell)

	require.False(t, view.Charts.NoData)
	points := view.Charts.Proportion.Points
	require.Len(t, points, 2)
	assert.Equal(t, "Physics", points[0].Label)
	assert.Equal(t, physicsCell.Color, points[0].Color)
	assert.Equal(t, mathCell.Color, points[1].Color)
	assert.Equal(t, timetable.DefaultPalette[0], mathCell.Color)
	assert.Equal(t, view.Charts.Hours.Points[0].Color, points[0].Color)
}

func TestViewServiceChartsNoData(t *testing.T) {
	charts, err := newViewServiceFixture(newMemoryCourseRepo()).Charts(context.Background())
	require.NoError(t, err)
	assert.True(t, charts.NoData)
	assert.Nil(t, charts.Proportion)
	assert.Equal(t, 0, charts.TotalCourses)
}

func TestViewServiceSlots(t *testing.T) {
	svc := newViewServiceFixture(newMemoryCourseRepo())
	slots := svc.Slots()
	require.Len(t, slots, 8)
	assert.Equal(t, "17:50", slots[7].End)
	assert.Len(t, svc.TimeSlots(), 8)
}
