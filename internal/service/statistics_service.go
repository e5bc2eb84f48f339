package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/timetable"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

const statsSummaryKey = "stats:summary"

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

// StatisticsService aggregates teaching time per course name.
type StatisticsService struct {
	repo   courseLister
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatisticsService constructs the statistics service.
func NewStatisticsService(repo courseLister, cache *CacheService, ttl time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Summary returns the statistics and whether they were served from cache.
func (s *StatisticsService) Summary(ctx context.Context) (*models.Statistics, bool, error) {
	var cached models.Statistics
	if hit, err := s.cache.Get(ctx, statsSummaryKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load statistics")
	}

	stats := ComputeStatistics(courses)
	_ = s.cache.Set(ctx, statsSummaryKey, stats, s.ttl)
	return &stats, false, nil
}

// ComputeStatistics sums minutes per course name and derives hours and percentages
// rounded to two decimals. The distribution is ordered by minutes, largest first,
// with ties kept in order of first appearance.
func ComputeStatistics(courses []models.Course) models.Statistics {
	stats := models.Statistics{
		TotalCourses:           len(courses),
		CourseTimeDistribution: []models.CourseTimeShare{},
	}

	index := make(map[string]int)
	totalMinutes := 0
	for _, course := range courses {
		span, err := timetable.ParseSpan(course.StartTime, course.EndTime)
		if err != nil {
			continue
		}
		minutes := span.Minutes()
		i, ok := index[course.CourseName]
		if !ok {
			i = len(stats.CourseTimeDistribution)
			index[course.CourseName] = i
			stats.CourseTimeDistribution = append(stats.CourseTimeDistribution, models.CourseTimeShare{CourseName: course.CourseName})
		}
		stats.CourseTimeDistribution[i].Minutes += minutes
		totalMinutes += minutes
	}

	for i := range stats.CourseTimeDistribution {
		share := &stats.CourseTimeDistribution[i]
		share.Hours = round2(float64(share.Minutes) / 60)
		if totalMinutes > 0 {
			share.Percentage = round2(float64(share.Minutes) / float64(totalMinutes) * 100)
		}
	}
	sort.SliceStable(stats.CourseTimeDistribution, func(a, b int) bool {
		return stats.CourseTimeDistribution[a].Minutes > stats.CourseTimeDistribution[b].Minutes
	})

	stats.TotalHours = round2(float64(totalMinutes) / 60)
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
