package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type courseServiceMock struct {
	listResp   []models.Course
	getResp    *models.Course
	createResp *models.Course
	updateResp *models.Course
	err        error
	lastID     string
	lastReq    dto.CourseRequest
	deleted    string
}

func (m *courseServiceMock) List(ctx context.Context) ([]models.Course, error) {
	return m.listResp, m.err
}

func (m *courseServiceMock) Get(ctx context.Context, id string) (*models.Course, error) {
	m.lastID = id
	return m.getResp, m.err
}

func (m *courseServiceMock) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	m.lastReq = req
	return m.createResp, m.err
}

func (m *courseServiceMock) Update(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	m.lastID = id
	m.lastReq = req
	return m.updateResp, m.err
}

func (m *courseServiceMock) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return m.err
}

func (m *courseServiceMock) Upcoming(ctx context.Context) ([]models.Course, error) {
	return m.listResp, m.err
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newJSONContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestCourseHandlerList(t *testing.T) {
	svc := &courseServiceMock{listResp: []models.Course{{ID: "c1", CourseName: "Math"}}}
	c, w := newJSONContext(http.MethodGet, "/courses", "")

	NewCourseHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, float64(1), env.Meta["total"])
	var courses []models.Course
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	assert.Equal(t, "Math", courses[0].CourseName)
}

func TestCourseHandlerCreate(t *testing.T) {
	svc := &courseServiceMock{createResp: &models.Course{ID: "c1", CourseName: "Math"}}
	c, w := newJSONContext(http.MethodPost, "/courses", `{"course_name":"Math","day_of_week":1,"start_time":"08:00","end_time":"08:45"}`)

	NewCourseHandler(svc).Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Math", svc.lastReq.CourseName)
	assert.Equal(t, 1, svc.lastReq.DayOfWeek)
}

func TestCourseHandlerCreateInvalidBody(t *testing.T) {
	c, w := newJSONContext(http.MethodPost, "/courses", `{"course_name":`)

	NewCourseHandler(&courseServiceMock{}).Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, w).Error.Code)
}

func TestCourseHandlerCreateConflictCarriesMeta(t *testing.T) {
	conflict := &models.CourseConflictError{
		Message:  "time range overlaps Physics (08:30-09:40)",
		Conflict: models.CourseConflict{CourseID: "c9", CourseName: "Physics", DayOfWeek: 1, StartTime: "08:30", EndTime: "09:40"},
	}
	svc := &courseServiceMock{err: appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Message)}
	c, w := newJSONContext(http.MethodPost, "/courses", `{"course_name":"Math","day_of_week":1,"start_time":"08:00","end_time":"08:45"}`)

	NewCourseHandler(svc).Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "CONFLICT", env.Error.Code)
	detail, ok := env.Meta["conflict"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "c9", detail["course_id"])
}

func TestCourseHandlerUpdateAndDelete(t *testing.T) {
	svc := &courseServiceMock{updateResp: &models.Course{ID: "c1"}}
	h := NewCourseHandler(svc)

	c, w := newJSONContext(http.MethodPut, "/courses/c1", `{"course_name":"Math","day_of_week":2,"start_time":"08:00","end_time":"08:45"}`)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", svc.lastID)

	c, w = newJSONContext(http.MethodDelete, "/courses/c1", "")
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "c1", svc.deleted)
}

func TestCourseHandlerNotFound(t *testing.T) {
	svc := &courseServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}
	c, w := newJSONContext(http.MethodGet, "/courses/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	NewCourseHandler(svc).Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "course not found", decodeEnvelope(t, w).Error.Message)
}
