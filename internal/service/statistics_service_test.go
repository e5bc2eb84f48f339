package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

func TestComputeStatistics(t *testing.T) {
	courses := []models.Course{
		sampleCourse("c1", "Math", 1, "08:00", "08:45"),
		sampleCourse("c2", "Physics", 1, "10:10", "11:50"),
		sampleCourse("c3", "Math", 3, "08:00", "08:45"),
		sampleCourse("c4", "Art", 4, "08:00", "08:45"),
		sampleCourse("c5", "Broken", 5, "later", "08:45"),
	}

	stats := ComputeStatistics(courses)

	assert.Equal(t, 5, stats.TotalCourses)
	assert.Equal(t, 3.92, stats.TotalHours)
	require.Len(t, stats.CourseTimeDistribution, 3)

	assert.Equal(t, models.CourseTimeShare{CourseName: "Physics", Minutes: 100, Hours: 1.67, Percentage: 42.55}, stats.CourseTimeDistribution[0])
	assert.Equal(t, models.CourseTimeShare{CourseName: "Math", Minutes: 90, Hours: 1.5, Percentage: 38.3}, stats.CourseTimeDistribution[1])
	assert.Equal(t, models.CourseTimeShare{CourseName: "Art", Minutes: 45, Hours: 0.75, Percentage: 19.15}, stats.CourseTimeDistribution[2])
}

func TestComputeStatisticsTiesKeepFirstSeenOrder(t *testing.T) {
	stats := ComputeStatistics([]models.Course{
		sampleCourse("c1", "Chemistry", 1, "08:00", "08:45"),
		sampleCourse("c2", "Biology", 2, "08:00", "08:45"),
	})
	assert.Equal(t, "Chemistry", stats.CourseTimeDistribution[0].CourseName)
	assert.Equal(t, "Biology", stats.CourseTimeDistribution[1].CourseName)
	assert.Equal(t, 50.0, stats.CourseTimeDistribution[0].Percentage)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)
	assert.Equal(t, 0, stats.TotalCourses)
	assert.Equal(t, 0.0, stats.TotalHours)
	assert.NotNil(t, stats.CourseTimeDistribution)
	assert.Empty(t, stats.CourseTimeDistribution)
}

func TestComputeStatisticsZeroTotal(t *testing.T) {
	stats := ComputeStatistics([]models.Course{sampleCourse("c1", "Math", 1, "08:00", "08:00")})
	require.Len(t, stats.CourseTimeDistribution, 1)
	assert.Equal(t, 0.0, stats.CourseTimeDistribution[0].Percentage)
}

func TestStatisticsServiceSummaryCaches(t *testing.T) {
	repo := newMemoryCourseRepo(sampleCourse("c1", "Math", 1, "08:00", "08:45"))
	cache := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewStatisticsService(repo, NewCacheService(cache, metrics, time.Minute, nil, true), time.Minute, nil)

	first, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0.75, first.TotalHours)

	repo.listErr = errors.New("database down")
	second, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
}

func TestStatisticsServiceCacheFailureFallsThrough(t *testing.T) {
	repo := newMemoryCourseRepo(sampleCourse("c1", "Math", 1, "08:00", "08:45"))
	cache := newMemoryCache()
	cache.getErr = errors.New("redis unavailable")
	svc := NewStatisticsService(repo, NewCacheService(cache, nil, time.Minute, nil, true), time.Minute, nil)

	stats, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, stats.TotalCourses)
}

func TestStatisticsServiceRepositoryError(t *testing.T) {
	repo := newMemoryCourseRepo()
	repo.listErr = errors.New("database down")
	svc := NewStatisticsService(repo, nil, time.Minute, nil)

	_, _, err := svc.Summary(context.Background())
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
