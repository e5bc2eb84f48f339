// Package viewer keeps the client-side timetable state: the grid, the upcoming
// list and the statistics charts, refreshed from the schedule API.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/timetable"
	"github.com/noah-isme/class-schedule-api/pkg/jobs"
)

// DefaultPollInterval is how often the upcoming list is refreshed while polling.
const DefaultPollInterval = time.Minute

// Backend is the subset of the REST client the session needs.
type Backend interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	Upcoming(ctx context.Context) ([]models.Course, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	Slots(ctx context.Context) ([]dto.SlotView, error)
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Slots    []timetable.TimeSlot
	Notifier Notifier
	Logger   *zap.Logger
}

// Snapshot is a consistent copy of every view.
type Snapshot struct {
	Courses  []models.Course
	Grid     dto.GridView
	Upcoming []models.Course
	Stats    *models.Statistics
	Charts   timetable.ChartSet
}

// Session holds the viewer state. Views are refreshed independently and the
// latest completed fetch of each view wins.
type Session struct {
	api      Backend
	colors   *timetable.ColorAssigner
	notifier Notifier
	logger   *zap.Logger

	mu       sync.RWMutex
	slots    []timetable.TimeSlot
	courses  []models.Course
	grid     dto.GridView
	upcoming []models.Course
	stats    *models.Statistics
	charts   timetable.ChartSet

	pollMu sync.Mutex
	poller *jobs.Periodic
}

// NewSession builds a session. Nil slots select the default periods.
func NewSession(api Backend, cfg SessionConfig) *Session {
	if len(cfg.Slots) == 0 {
		cfg.Slots = timetable.DefaultSlots()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewLogNotifier(cfg.Logger)
	}
	return &Session{
		api:      api,
		colors:   timetable.NewColorAssigner(nil),
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		slots:    cfg.Slots,
		grid:     timetable.GridView(timetable.MapToGrid(nil, cfg.Slots), nil),
		charts:   timetable.ChartSet{NoData: true},
	}
}

// Slots returns the periods the grid is built on.
func (s *Session) Slots() []timetable.TimeSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]timetable.TimeSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

// SyncSlots replaces the local periods with the server's catalogue. On failure the
// current periods are kept.
func (s *Session) SyncSlots(ctx context.Context) error {
	views, err := s.api.Slots(ctx)
	if err != nil {
		s.notify(LevelWarn, "Failed to load periods, using defaults", err)
		return err
	}
	if len(views) == 0 {
		return nil
	}
	slots := make([]timetable.TimeSlot, 0, len(views))
	for _, v := range views {
		slots = append(slots, timetable.TimeSlot{Index: v.Index, Label: v.Label, Start: v.Start, End: v.End})
	}
	s.mu.Lock()
	s.slots = slots
	s.mu.Unlock()
	return nil
}

// Load fetches the course list and rebuilds the grid, then refreshes the upcoming
// list and statistics. Each failure is reported once and the other views still update.
func (s *Session) Load(ctx context.Context) error {
	var errs []error
	if err := s.loadCourses(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.RefreshUpcoming(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.RefreshStatistics(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) loadCourses(ctx context.Context) error {
	courses, err := s.api.ListCourses(ctx)
	if err != nil {
		s.notify(LevelError, "Failed to load courses", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.Reset()
	s.colors.Prime(courses)
	s.courses = courses
	s.grid = timetable.GridView(timetable.MapToGrid(courses, s.slots), s.colors)
	return nil
}

// RefreshUpcoming re-fetches only the upcoming list.
func (s *Session) RefreshUpcoming(ctx context.Context) error {
	upcoming, err := s.api.Upcoming(ctx)
	if err != nil {
		s.notify(LevelError, "Failed to load upcoming courses", err)
		return err
	}
	s.mu.Lock()
	s.upcoming = upcoming
	s.mu.Unlock()
	return nil
}

// RefreshStatistics re-fetches the statistics and rebuilds the charts with the grid's colors.
func (s *Session) RefreshStatistics(ctx context.Context) error {
	stats, err := s.api.Statistics(ctx)
	if err != nil {
		s.notify(LevelError, "Failed to load statistics", err)
		return err
	}
	s.mu.Lock()
	s.stats = stats
	s.charts = timetable.BuildCharts(stats.CourseTimeDistribution, s.colors)
	s.mu.Unlock()
	return nil
}

// Edit returns the editor state and form for a loaded course.
func (s *Session) Edit(courseID string) (timetable.EditorState, timetable.CourseForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.ID == courseID {
			return timetable.Editing(c.ID), timetable.FormFromCourse(c, s.slots), nil
		}
	}
	return timetable.Adding(), timetable.CourseForm{}, fmt.Errorf("course %s is not loaded", courseID)
}

// Save creates or updates a course depending on state, then reloads every view.
func (s *Session) Save(ctx context.Context, state timetable.EditorState, form timetable.CourseForm) (*models.Course, error) {
	req, err := form.ToRequest(s.Slots())
	if err != nil {
		s.notify(LevelWarn, "Invalid course", err)
		return nil, err
	}

	var course *models.Course
	if state.IsEditing() {
		course, err = s.api.UpdateCourse(ctx, state.CourseID(), req)
	} else {
		course, err = s.api.CreateCourse(ctx, req)
	}
	if err != nil {
		s.notify(LevelError, "Failed to save course", err)
		return nil, err
	}

	s.notifier.Notify(LevelInfo, "Course saved")
	_ = s.Load(ctx)
	return course, nil
}

// Delete removes the course being edited, then reloads every view.
func (s *Session) Delete(ctx context.Context, state timetable.EditorState) error {
	if !state.IsEditing() {
		return timetable.ErrNotEditing
	}
	if err := s.api.DeleteCourse(ctx, state.CourseID()); err != nil {
		s.notify(LevelError, "Failed to delete course", err)
		return err
	}
	s.notifier.Notify(LevelInfo, "Course deleted")
	_ = s.Load(ctx)
	return nil
}

// Snapshot copies the current views.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Courses:  append([]models.Course(nil), s.courses...),
		Grid:     s.grid,
		Upcoming: append([]models.Course(nil), s.upcoming...),
		Charts:   s.charts,
	}
	if s.stats != nil {
		stats := *s.stats
		snap.Stats = &stats
	}
	return snap
}

// StartPolling refreshes the upcoming list every interval until StopPolling or ctx ends.
func (s *Session) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	if s.poller != nil && s.poller.Running() {
		return
	}
	s.poller = jobs.NewPeriodic("viewer-upcoming", s.RefreshUpcoming, jobs.PeriodicConfig{
		Interval: interval,
		Logger:   s.logger,
	})
	s.poller.Start(ctx)
}

// StopPolling stops the poller and waits for it to exit.
func (s *Session) StopPolling() {
	s.pollMu.Lock()
	poller := s.poller
	s.poller = nil
	s.pollMu.Unlock()
	if poller != nil {
		poller.Stop()
	}
}

// Polling reports whether the upcoming poller is running.
func (s *Session) Polling() bool {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	return s.poller != nil && s.poller.Running()
}

func (s *Session) notify(level Level, message string, err error) {
	s.logger.Debug(message, zap.Error(err))
	s.notifier.Notify(level, fmt.Sprintf("%s: %v", message, err))
}
