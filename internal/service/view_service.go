package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/timetable"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type statisticsProvider interface {
	Summary(ctx context.Context) (*models.Statistics, bool, error)
}

// ViewService builds render-ready grid and chart models. Every call primes a fresh
// color assigner with the full course list so grid cells and chart points agree.
type ViewService struct {
	courses courseLister
	stats   statisticsProvider
	slots   []timetable.TimeSlot
	palette []string
	logger  *zap.Logger
}

// NewViewService constructs the view service. Nil slots select the default catalogue.
func NewViewService(courses courseLister, stats statisticsProvider, slots []timetable.TimeSlot, logger *zap.Logger) *ViewService {
	if len(slots) == 0 {
		slots = timetable.DefaultSlots()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{courses: courses, stats: stats, slots: slots, palette: timetable.DefaultPalette, logger: logger}
}

// Slots returns the slot catalogue.
func (s *ViewService) Slots() []dto.SlotView {
	return timetable.SlotViews(s.slots)
}

// TimeSlots returns a copy of the slot definitions.
func (s *ViewService) TimeSlots() []timetable.TimeSlot {
	out := make([]timetable.TimeSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Grid maps the current course list onto the weekly grid.
func (s *ViewService) Grid(ctx context.Context) (*dto.GridView, error) {
	courses, colors, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	view := timetable.GridView(timetable.MapToGrid(courses, s.slots), colors)
	if len(view.Unplaced) > 0 {
		s.logger.Debug("courses outside every slot", zap.Strings("course_ids", view.Unplaced))
	}
	return &view, nil
}

// Charts builds the proportion and hours charts from the statistics summary.
func (s *ViewService) Charts(ctx context.Context) (*dto.ChartsView, error) {
	_, colors, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.charts(ctx, colors)
}

// Schedule returns grid and charts rendered with one shared color assignment.
func (s *ViewService) Schedule(ctx context.Context) (*dto.ScheduleView, error) {
	courses, colors, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	charts, err := s.charts(ctx, colors)
	if err != nil {
		return nil, err
	}
	return &dto.ScheduleView{
		Grid:   timetable.GridView(timetable.MapToGrid(courses, s.slots), colors),
		Charts: *charts,
	}, nil
}

func (s *ViewService) load(ctx context.Context) ([]models.Course, *timetable.ColorAssigner, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	colors := timetable.NewColorAssigner(s.palette)
	colors.Prime(courses)
	return courses, colors, nil
}

func (s *ViewService) charts(ctx context.Context, colors *timetable.ColorAssigner) (*dto.ChartsView, error) {
	stats, _, err := s.stats.Summary(ctx)
	if err != nil {
		return nil, err
	}
	view := timetable.ChartsView(*stats, timetable.BuildCharts(stats.CourseTimeDistribution, colors))
	return &view, nil
}
