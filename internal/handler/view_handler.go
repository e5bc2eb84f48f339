package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/pkg/response"
)

type viewService interface {
	Slots() []dto.SlotView
	Grid(ctx context.Context) (*dto.GridView, error)
	Charts(ctx context.Context) (*dto.ChartsView, error)
}

// ViewHandler serves render-ready timetable models.
type ViewHandler struct {
	service viewService
}

// NewViewHandler builds a view handler.
func NewViewHandler(service viewService) *ViewHandler {
	return &ViewHandler{service: service}
}

// Slots godoc
// @Summary Period catalogue
// @Tags Views
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /slots [get]
func (h *ViewHandler) Slots(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Slots())
}

// Grid godoc
// @Summary Weekly grid
// @Description Seven day columns with the course occupying each period.
// @Tags Views
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /view/grid [get]
func (h *ViewHandler) Grid(c *gin.Context) {
	grid, err := h.service.Grid(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid)
}

// Charts godoc
// @Summary Statistics charts
// @Tags Views
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /view/charts [get]
func (h *ViewHandler) Charts(c *gin.Context) {
	charts, err := h.service.Charts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, charts)
}
