package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/timetable"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

const (
	statsCachePattern    = "stats:*"
	defaultUpcomingLimit = 5
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListByDay(ctx context.Context, day int, excludeID string) ([]models.Course, error)
	ListUpcoming(ctx context.Context, today int, from string, tomorrow int, limit int) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseServiceConfig tunes the upcoming window.
type CourseServiceConfig struct {
	Location      *time.Location
	UpcomingLimit int
	// Now overrides the wall clock; tests pin it.
	Now func() time.Time
}

// CourseService handles course CRUD with the same-day overlap check.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       CourseServiceConfig
}

// NewCourseService creates a course service and registers the hhmm validation on validate.
func NewCourseService(repo courseRepository, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg CourseServiceConfig) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.UpcomingLimit <= 0 {
		cfg.UpcomingLimit = defaultUpcomingLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if err := RegisterValidations(validate); err != nil {
		logger.Warn("course validations not registered", zap.Error(err))
	}
	return &CourseService{repo: repo, validator: validate, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// courseValidations are the custom tags used by the course DTOs.
var courseValidations = map[string]validator.Func{
	"hhmm": func(fl validator.FieldLevel) bool {
		return timetable.ValidClock(fl.Field().String())
	},
}

// RegisterValidations installs the custom tags used by the course DTOs.
func RegisterValidations(validate *validator.Validate) error {
	for tag, fn := range courseValidations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validation: %w", tag, err)
		}
	}
	return nil
}

// List returns every course ordered by weekday and start time.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create validates the request, rejects overlaps on the same day and persists the course.
func (s *CourseService) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	course, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, course, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.afterMutation(ctx, "create", course.ID)
	return course, nil
}

// Update replaces a course. The overlap check ignores the course itself.
func (s *CourseService) Update(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	course.ID = existing.ID
	course.CreatedAt = existing.CreatedAt

	if err := s.checkConflict(ctx, course, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.afterMutation(ctx, "update", course.ID)
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.afterMutation(ctx, "delete", id)
	return nil
}

// Upcoming returns the rest of today's courses followed by tomorrow's, in the configured timezone.
func (s *CourseService) Upcoming(ctx context.Context) ([]models.Course, error) {
	now := s.cfg.Now().In(s.cfg.Location)
	today := isoWeekday(now)
	tomorrow := today%7 + 1

	courses, err := s.repo.ListUpcoming(ctx, today, now.Format("15:04"), tomorrow, s.cfg.UpcomingLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming courses")
	}
	return courses, nil
}

func (s *CourseService) fromRequest(req dto.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	start, _ := timetable.NormalizeClock(req.StartTime)
	end, _ := timetable.NormalizeClock(req.EndTime)
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	return &models.Course{
		CourseName: req.CourseName,
		Teacher:    normalizeText(req.Teacher),
		Classroom:  normalizeText(req.Classroom),
		DayOfWeek:  req.DayOfWeek,
		StartTime:  start,
		EndTime:    end,
		WeekRange:  normalizeText(req.WeekRange),
		Credit:     req.Credit,
		Notes:      normalizeText(req.Notes),
	}, nil
}

func (s *CourseService) checkConflict(ctx context.Context, course *models.Course, excludeID string) error {
	sameDay, err := s.repo.ListByDay(ctx, course.DayOfWeek, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course conflicts")
	}

	span, err := timetable.ParseSpan(course.StartTime, course.EndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course time")
	}

	for _, other := range sameDay {
		otherSpan, err := timetable.ParseSpan(other.StartTime, other.EndTime)
		if err != nil || !span.Overlaps(otherSpan) {
			continue
		}
		s.metrics.RecordCourseConflict()
		message := fmt.Sprintf("time range overlaps %s (%s-%s)", other.CourseName, other.StartTime, other.EndTime)
		conflict := &models.CourseConflictError{
			Message: message,
			Conflict: models.CourseConflict{
				CourseID:   other.ID,
				CourseName: other.CourseName,
				DayOfWeek:  other.DayOfWeek,
				StartTime:  other.StartTime,
				EndTime:    other.EndTime,
			},
		}
		return appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message)
	}
	return nil
}

func (s *CourseService) afterMutation(ctx context.Context, op, courseID string) {
	s.metrics.RecordCourseMutation(op)
	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("statistics cache not invalidated", zap.String("op", op), zap.Error(err))
	}
	s.logger.Info("course "+op+"d", zap.String("course_id", courseID))
}

func normalizeText(value *string) *string {
	if value == nil {
		return nil
	}
	return models.StringPtr(*value)
}

// isoWeekday maps time.Weekday onto 1 (Monday) through 7 (Sunday).
func isoWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}
