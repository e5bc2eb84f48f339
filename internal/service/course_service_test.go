package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

func newCourseServiceFixture(t *testing.T, repo *memoryCourseRepo, cache *memoryCache, now time.Time) *CourseService {
	t.Helper()
	cacheSvc := NewCacheService(cache, nil, time.Minute, nil, cache != nil)
	return NewCourseService(repo, validator.New(), cacheSvc, NewMetricsService(), nil, CourseServiceConfig{
		Location:      time.UTC,
		UpcomingLimit: 5,
		Now:           func() time.Time { return now },
	})
}

func validRequest() dto.CourseRequest {
	return dto.CourseRequest{CourseName: "Math", DayOfWeek: 1, StartTime: "8:00", EndTime: "08:45", Teacher: strPtr("  Ms. Rivera "), Notes: strPtr("   ")}
}

func TestCourseServiceCreate(t *testing.T) {
	repo := newMemoryCourseRepo()
	svc := newCourseServiceFixture(t, repo, nil, time.Now())

	course, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "course-1", course.ID)
	assert.Equal(t, "08:00", course.StartTime, "times are normalised")
	require.NotNil(t, course.Teacher)
	assert.Equal(t, "Ms. Rivera", *course.Teacher)
	assert.Nil(t, course.Notes, "blank optional text is dropped")
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc := newCourseServiceFixture(t, newMemoryCourseRepo(), nil, time.Now())

	cases := map[string]func(*dto.CourseRequest){
		"missing name":     func(r *dto.CourseRequest) { r.CourseName = "" },
		"day out of range": func(r *dto.CourseRequest) { r.DayOfWeek = 8 },
		"bad clock":        func(r *dto.CourseRequest) { r.StartTime = "25:00" },
		"end before start": func(r *dto.CourseRequest) { r.StartTime, r.EndTime = "09:00", "08:00" },
		"zero length":      func(r *dto.CourseRequest) { r.EndTime = "08:00" },
		"negative credit":  func(r *dto.CourseRequest) { v := -1.0; r.Credit = &v },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
			assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
		})
	}
}

func TestCourseServiceCreateConflict(t *testing.T) {
	repo := newMemoryCourseRepo(sampleCourse("c1", "Physics", 1, "08:30", "09:40"))
	svc := newCourseServiceFixture(t, repo, nil, time.Now())

	_, err := svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)

	var conflict *models.CourseConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "c1", conflict.Conflict.CourseID)

	other := validRequest()
	other.DayOfWeek = 2
	_, err = svc.Create(context.Background(), other)
	assert.NoError(t, err, "other days never conflict")

	touching := validRequest()
	touching.StartTime, touching.EndTime = "09:40", "10:00"
	_, err = svc.Create(context.Background(), touching)
	assert.NoError(t, err, "touching ranges do not overlap")
}

func TestCourseServiceUpdate(t *testing.T) {
	repo := newMemoryCourseRepo(
		sampleCourse("c1", "Math", 1, "08:00", "08:45"),
		sampleCourse("c2", "Physics", 1, "10:10", "10:55"),
	)
	svc := newCourseServiceFixture(t, repo, nil, time.Now())

	req := validRequest()
	req.EndTime = "09:40"
	updated, err := svc.Update(context.Background(), "c1", req)
	require.NoError(t, err, "a course never conflicts with itself")
	assert.Equal(t, "09:40", updated.EndTime)

	req.EndTime = "10:30"
	_, err = svc.Update(context.Background(), "c1", req)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	_, err = svc.Update(context.Background(), "missing", validRequest())
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCourseServiceDelete(t *testing.T) {
	repo := newMemoryCourseRepo(sampleCourse("c1", "Math", 1, "08:00", "08:45"))
	svc := newCourseServiceFixture(t, repo, nil, time.Now())

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	err := svc.Delete(context.Background(), "c1")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Get(context.Background(), "c1")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCourseServiceMutationsInvalidateStatistics(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, cache.Set(context.Background(), statsSummaryKey, map[string]int{"total_courses": 0}, 0))
	svc := newCourseServiceFixture(t, newMemoryCourseRepo(), cache, time.Now())

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, cache.has(statsSummaryKey))
	assert.Equal(t, []string{statsCachePattern}, cache.invalidated)
}

func TestCourseServiceUpcomingWindow(t *testing.T) {
	// Sunday 16:00: the rest of Sunday plus Monday.
	now := time.Date(2026, 3, 8, 16, 0, 0, 0, time.UTC)
	repo := newMemoryCourseRepo(
		sampleCourse("past", "Math", 7, "08:00", "08:45"),
		sampleCourse("later", "Art", 7, "16:10", "16:55"),
		sampleCourse("tomorrow", "Physics", 1, "08:00", "08:45"),
		sampleCourse("far", "Music", 3, "08:00", "08:45"),
	)
	svc := newCourseServiceFixture(t, repo, nil, now)

	courses, err := svc.Upcoming(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.upcoming, 1)
	assert.Equal(t, upcomingCall{today: 7, from: "16:00", tomorrow: 1, limit: 5}, repo.upcoming[0])
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"later", "tomorrow"}, ids)
}

func TestCourseServiceUpcomingUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	repo := newMemoryCourseRepo()
	// 20:00 UTC Monday is 04:00 Tuesday at UTC+8.
	now := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
	svc := NewCourseService(repo, nil, nil, nil, nil, CourseServiceConfig{Location: loc, Now: func() time.Time { return now }})

	_, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	assert.Equal(t, upcomingCall{today: 2, from: "04:00", tomorrow: 3, limit: defaultUpcomingLimit}, repo.upcoming[0])
}

func TestIsoWeekday(t *testing.T) {
	assert.Equal(t, 1, isoWeekday(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, isoWeekday(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)))
}
