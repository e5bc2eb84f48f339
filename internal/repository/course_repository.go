package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

const courseColumns = `id, course_name, teacher, classroom, day_of_week, start_time, end_time, week_range, credit, notes, created_at, updated_at`

// CourseRepository handles persistence for weekly course occurrences.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course ordered by weekday then start time.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY day_of_week, start_time, course_name", courseColumns)
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by id. A missing row or a malformed id yields sql.ErrNoRows.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, noRowsOnMalformedID(err)
	}
	return &course, nil
}

// ListByDay returns the courses held on day, optionally skipping excludeID.
func (r *CourseRepository) ListByDay(ctx context.Context, day int, excludeID string) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE day_of_week = $1", courseColumns)
	args := []interface{}{day}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	query += " ORDER BY start_time"

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses by day: %w", err)
	}
	return courses, nil
}

// ListUpcoming returns courses later today (start_time >= from) followed by all of tomorrow.
func (r *CourseRepository) ListUpcoming(ctx context.Context, today int, from string, tomorrow int, limit int) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses
WHERE (day_of_week = $1 AND start_time >= $2) OR day_of_week = $3
ORDER BY CASE WHEN day_of_week = $1 THEN 0 ELSE 1 END, start_time
LIMIT $4`, courseColumns)

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, today, from, tomorrow, limit); err != nil {
		return nil, fmt.Errorf("list upcoming courses: %w", err)
	}
	return courses, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, course_name, teacher, classroom, day_of_week, start_time, end_time, week_range, credit, notes, created_at, updated_at) VALUES (:id, :course_name, :teacher, :classroom, :day_of_week, :start_time, :end_time, :week_range, :credit, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a course. A missing row yields sql.ErrNoRows.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_name = :course_name, teacher = :teacher, classroom = :classroom, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, week_range = :week_range, credit = :credit, notes = :notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", noRowsOnMalformedID(err))
	}
	return expectAffected(res, "update course")
}

// Delete removes a course. A missing row yields sql.ErrNoRows.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", noRowsOnMalformedID(err))
	}
	return expectAffected(res, "delete course")
}

// Ping verifies database connectivity for readiness checks.
func (r *CourseRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// invalidTextRepresentation is raised when an id cannot be cast to UUID.
const invalidTextRepresentation = "22P02"

// noRowsOnMalformedID maps a rejected id cast to sql.ErrNoRows; no row can match it.
func noRowsOnMalformedID(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation {
		return sql.ErrNoRows
	}
	return err
}

func expectAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
