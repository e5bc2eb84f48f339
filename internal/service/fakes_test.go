package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type upcomingCall struct {
	today    int
	from     string
	tomorrow int
	limit    int
}

// memoryCourseRepo keeps courses in insertion order.
type memoryCourseRepo struct {
	mu       sync.Mutex
	courses  []models.Course
	nextID   int
	listErr  error
	upcoming []upcomingCall
}

func newMemoryCourseRepo(courses ...models.Course) *memoryCourseRepo {
	return &memoryCourseRepo{courses: courses}
}

func (r *memoryCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Course, len(r.courses))
	copy(out, r.courses)
	return out, nil
}

func (r *memoryCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryCourseRepo) ListByDay(ctx context.Context, day int, excludeID string) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Course
	for _, c := range r.courses {
		if c.DayOfWeek == day && c.ID != excludeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryCourseRepo) ListUpcoming(ctx context.Context, today int, from string, tomorrow int, limit int) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upcoming = append(r.upcoming, upcomingCall{today: today, from: from, tomorrow: tomorrow, limit: limit})
	var out []models.Course
	for _, c := range r.courses {
		if (c.DayOfWeek == today && c.StartTime >= from) || c.DayOfWeek == tomorrow {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	course.ID = fmt.Sprintf("course-%d", r.nextID)
	course.CreatedAt = time.Now().UTC()
	course.UpdatedAt = course.CreatedAt
	r.courses = append(r.courses, *course)
	return nil
}

func (r *memoryCourseRepo) Update(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.courses {
		if r.courses[i].ID == course.ID {
			r.courses[i] = *course
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *memoryCourseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.courses {
		if r.courses[i].ID == id {
			r.courses = append(r.courses[:i], r.courses[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// memoryCache is an in-process CacheRepository.
type memoryCache struct {
	mu          sync.Mutex
	items       map[string][]byte
	getErr      error
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func strPtr(v string) *string { return &v }

func sampleCourse(id, name string, day int, start, end string) models.Course {
	return models.Course{ID: id, CourseName: name, DayOfWeek: day, StartTime: start, EndTime: end}
}
