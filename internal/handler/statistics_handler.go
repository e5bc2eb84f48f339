package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/pkg/response"
)

type statisticsService interface {
	Summary(ctx context.Context) (*models.Statistics, bool, error)
}

// StatisticsHandler serves the teaching time summary.
type StatisticsHandler struct {
	service statisticsService
}

// NewStatisticsHandler builds a statistics handler.
func NewStatisticsHandler(service statisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// Summary godoc
// @Summary Teaching time statistics
// @Description Minutes, hours and share of the week per course name.
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	stats, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, map[string]interface{}{"cache_hit": cacheHit})
}
