package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

var courseRowColumns = []string{"id", "course_name", "teacher", "classroom", "day_of_week", "start_time", "end_time", "week_range", "credit", "notes", "created_at", "updated_at"}

func newCourseRepoMock(t *testing.T) (*CourseRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewCourseRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestCourseRepositoryList(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(courseRowColumns).
		AddRow("c1", "Math", "Ms. Rivera", nil, 1, "08:00", "08:45", nil, 2.0, nil, now, now).
		AddRow("c2", "Physics", nil, "Lab 1", 2, "10:10", "11:50", "1-16", nil, "bring goggles", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses ORDER BY day_of_week, start_time, course_name")).
		WillReturnRows(rows)

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Math", courses[0].CourseName)
	require.NotNil(t, courses[0].Teacher)
	assert.Equal(t, "Ms. Rivera", *courses[0].Teacher)
	assert.Nil(t, courses[0].Classroom)
	require.NotNil(t, courses[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDMissing(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(courseRowColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListByDayExcludes(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE day_of_week = $1 AND id <> $2 ORDER BY start_time")).
		WithArgs(3, "c1").
		WillReturnRows(sqlmock.NewRows(courseRowColumns))

	courses, err := repo.ListByDay(context.Background(), 3, "c1")
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListUpcoming(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (day_of_week = $1 AND start_time >= $2) OR day_of_week = $3")).
		WithArgs(7, "16:00", 1, 5).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("c1", "Art", nil, nil, 7, "16:10", "16:55", nil, nil, nil, now, now))

	courses, err := repo.ListUpcoming(context.Background(), 7, "16:00", 1, 5)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "Math", nil, nil, 1, "08:00", "08:45", nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{CourseName: "Math", DayOfWeek: 1, StartTime: "08:00", EndTime: "08:45"}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdateAndDeleteMissing(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE courses SET").WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Update(context.Background(), &models.Course{ID: "missing", CourseName: "Math", DayOfWeek: 1, StartTime: "08:00", EndTime: "08:45"})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), "c1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryMalformedIDIsNotFound(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	castErr := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("abc").
		WillReturnError(castErr)
	mock.ExpectExec("UPDATE courses SET").WillReturnError(castErr)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("abc").
		WillReturnError(castErr)

	_, err := repo.FindByID(context.Background(), "abc")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	err = repo.Update(context.Background(), &models.Course{ID: "abc", CourseName: "Math", DayOfWeek: 1, StartTime: "08:00", EndTime: "08:45"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(context.Background(), "abc"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryKeepsOtherDriverErrors(t *testing.T) {
	repo, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WillReturnError(&pq.Error{Code: "57014", Message: "canceling statement due to statement timeout"})

	_, err := repo.FindByID(context.Background(), "5f0c7d1e-8a43-4f1e-9a55-2f7e3c7b6d10")
	require.Error(t, err)
	assert.NotErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
