// Package client is a typed REST client for the schedule API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
)

// APIError is a failed request, carrying the backend's error body when one was sent.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
}

// Client talks to the schedule API under one base URL such as http://localhost:8080/api.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client. A non-positive timeout falls back to ten seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListCourses returns every course.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCourse returns one course.
func (c *Client) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodGet, "/courses/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCourse posts a new course.
func (c *Client) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodPost, "/courses", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse replaces an existing course.
func (c *Client) UpdateCourse(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodPut, "/courses/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+id, nil, nil)
}

// Upcoming returns the rest of today's courses and tomorrow's.
func (c *Client) Upcoming(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := c.do(ctx, http.MethodGet, "/upcoming", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics returns the teaching time summary.
func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	var out models.Statistics
	if err := c.do(ctx, http.MethodGet, "/statistics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Slots returns the period catalogue.
func (c *Client) Slots(ctx context.Context) ([]dto.SlotView, error) {
	var out []dto.SlotView
	if err := c.do(ctx, http.MethodGet, "/slots", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Error != nil {
			if env.Error.Status == 0 {
				env.Error.Status = resp.StatusCode
			}
			return env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
