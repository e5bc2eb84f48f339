package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/timetable"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
	"github.com/noah-isme/class-schedule-api/pkg/export"
	"github.com/noah-isme/class-schedule-api/pkg/storage"
)

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, int64, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type gridRenderer interface {
	RenderGrid(sheet export.GridSheet) ([]byte, error)
}

type calendarRenderer interface {
	Render(calName string, events []export.CalendarEvent) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled   bool
	APIPrefix string
	Retention time.Duration
	Location  *time.Location
	Now       func() time.Time
}

// ExportDownload is an opened export ready to stream.
type ExportDownload struct {
	File        *os.File
	Size        int64
	Filename    string
	ContentType string
}

// ExportService renders the timetable in several formats and hands out signed download links.
type ExportService struct {
	courses courseLister
	slots   []timetable.TimeSlot
	storage fileStorage
	signer  *storage.SignedURLSigner
	csv     datasetRenderer
	pdf     gridRenderer
	xlsx    gridRenderer
	ics     calendarRenderer
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService with the default renderers.
func NewExportService(courses courseLister, slots []timetable.TimeSlot, store fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if len(slots) == 0 {
		slots = timetable.DefaultSlots()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ExportService{
		courses: courses,
		slots:   slots,
		storage: store,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		xlsx:    export.NewXLSXExporter("Timetable"),
		ics:     export.NewICalExporter(""),
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Enabled reports whether exports are switched on.
func (s *ExportService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.storage != nil && s.signer != nil
}

// Generate renders the current timetable, stores it and returns a signed download link.
func (s *ExportService) Generate(ctx context.Context, req dto.ExportRequest) (*models.ExportResult, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "exports are disabled")
	}
	format := models.ExportFormat(strings.ToLower(strings.TrimSpace(req.Format)))
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of csv, pdf, xlsx, ics")
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	start := time.Now()
	payload, err := s.render(format, courses)
	s.metrics.RecordExport(string(format), err, time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	now := s.cfg.Now().UTC()
	name := path.Join(now.Format("2006/01/02"), id, "timetable."+string(format))
	relPath, err := s.storage.Save(name, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	s.logger.Info("export generated", zap.String("export_id", id), zap.String("format", string(format)), zap.Int("bytes", len(payload)))

	return &models.ExportResult{
		ID:           id,
		Format:       format,
		RelativePath: relPath,
		URL:          fmt.Sprintf("%s/exports/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt:    expiresAt,
	}, nil
}

// Open validates a download token and opens the referenced file.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "exports are disabled")
	}
	claims, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrGone, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}

	file, size, err := s.storage.Open(claims.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrGone, "export file no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}

	format := models.ExportFormat(strings.TrimPrefix(path.Ext(claims.Path), "."))
	return &ExportDownload{
		File:        file,
		Size:        size,
		Filename:    fmt.Sprintf("timetable-%s.%s", claims.ExpiresAt.Add(-s.signer.TTL()).UTC().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
	}, nil
}

// Cleanup removes exports older than the retention window. It matches jobs.TaskFunc.
func (s *ExportService) Cleanup(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	deleted, err := s.storage.CleanupOlderThan(s.cfg.Retention)
	s.metrics.RecordExportsPurged(len(deleted))
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
	}
	return err
}

func (s *ExportService) render(format models.ExportFormat, courses []models.Course) ([]byte, error) {
	switch format {
	case models.ExportFormatCSV:
		return s.csv.Render(courseDataset(courses))
	case models.ExportFormatPDF:
		return s.pdf.RenderGrid(s.gridSheet(courses))
	case models.ExportFormatXLSX:
		return s.xlsx.RenderGrid(s.gridSheet(courses))
	case models.ExportFormatICS:
		return s.ics.Render("Class schedule", s.calendarEvents(courses))
	}
	return nil, fmt.Errorf("unsupported format %s", format)
}

var courseDatasetHeaders = []string{"id", "course_name", "teacher", "classroom", "day_of_week", "day", "start_time", "end_time", "week_range", "credit", "notes"}

func courseDataset(courses []models.Course) export.Dataset {
	rows := make([]map[string]string, 0, len(courses))
	for _, c := range courses {
		credit := ""
		if c.Credit != nil {
			credit = strconv.FormatFloat(*c.Credit, 'f', -1, 64)
		}
		rows = append(rows, map[string]string{
			"id":          c.ID,
			"course_name": c.CourseName,
			"teacher":     models.TextOr(c.Teacher, ""),
			"classroom":   models.TextOr(c.Classroom, ""),
			"day_of_week": strconv.Itoa(c.DayOfWeek),
			"day":         timetable.DayName(c.DayOfWeek),
			"start_time":  c.StartTime,
			"end_time":    c.EndTime,
			"week_range":  models.TextOr(c.WeekRange, ""),
			"credit":      credit,
			"notes":       models.TextOr(c.Notes, ""),
		})
	}
	return export.Dataset{Headers: courseDatasetHeaders, Rows: rows}
}

func (s *ExportService) gridSheet(courses []models.Course) export.GridSheet {
	colors := timetable.NewColorAssigner(nil)
	colors.Prime(courses)
	grid := timetable.MapToGrid(courses, s.slots)

	sheet := export.GridSheet{
		Title:       "Weekly timetable",
		CornerLabel: "Period",
		Rows:        make([]export.GridRow, 0, len(s.slots)),
	}
	for day := 1; day <= timetable.DaysPerWeek; day++ {
		sheet.ColumnHeaders = append(sheet.ColumnHeaders, timetable.DayName(day))
	}

	for i, slot := range grid.Slots() {
		row := export.GridRow{Header: slot.Label, Cells: make([]export.GridCell, timetable.DaysPerWeek)}
		for day := 1; day <= timetable.DaysPerWeek; day++ {
			if course, ok := grid.Cell(day, i); ok {
				row.Cells[day-1] = export.GridCell{
					Title:  course.CourseName,
					Detail: timetable.CardInfo(course),
					Fill:   colors.ColorFor(course.CourseName),
				}
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// calendarEvents anchors each course at its next weekly occurrence from now.
func (s *ExportService) calendarEvents(courses []models.Course) []export.CalendarEvent {
	loc := s.cfg.Location
	now := s.cfg.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	today := isoWeekday(now)

	events := make([]export.CalendarEvent, 0, len(courses))
	for _, c := range courses {
		span, err := timetable.ParseSpan(c.StartTime, c.EndTime)
		if err != nil || span.Minutes() == 0 || c.DayOfWeek < 1 || c.DayOfWeek > timetable.DaysPerWeek {
			s.logger.Debug("course skipped in calendar export", zap.String("course_id", c.ID))
			continue
		}
		offset := (c.DayOfWeek - today + timetable.DaysPerWeek) % timetable.DaysPerWeek
		day := midnight.AddDate(0, 0, offset)
		start := time.Date(day.Year(), day.Month(), day.Day(), span.Start/60, span.Start%60, 0, 0, loc)
		end := time.Date(day.Year(), day.Month(), day.Day(), span.End/60, span.End%60, 0, 0, loc)
		if loc == time.Local {
			start, end = start.UTC(), end.UTC()
		}

		var details []string
		if teacher := models.TextOr(c.Teacher, ""); teacher != "" {
			details = append(details, "Teacher: "+teacher)
		}
		if weeks := models.TextOr(c.WeekRange, ""); weeks != "" {
			details = append(details, "Weeks: "+weeks)
		}
		if notes := models.TextOr(c.Notes, ""); notes != "" {
			details = append(details, notes)
		}

		events = append(events, export.CalendarEvent{
			UID:         c.ID + "@class-schedule",
			Summary:     c.CourseName,
			Location:    models.TextOr(c.Classroom, ""),
			Description: strings.Join(details, "\n"),
			Start:       start,
			End:         end,
			Weekly:      true,
		})
	}
	return events
}
