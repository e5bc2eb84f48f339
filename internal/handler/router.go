package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/middleware"
	"github.com/noah-isme/class-schedule-api/internal/service"
	"github.com/noah-isme/class-schedule-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-schedule-api/pkg/middleware/requestid"
)

// RouterConfig carries the settings the route table depends on.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
}

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Courses    *CourseHandler
	Statistics *StatisticsHandler
	Views      *ViewHandler
	Exports    *ExportHandler
	Metrics    *MetricsHandler
}

// NewRouter wires middleware and routes into a gin engine.
func NewRouter(cfg RouterConfig, h Handlers, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		courses := api.Group("/courses")
		{
			courses.GET("", h.Courses.List)
			courses.POST("", h.Courses.Create)
			courses.GET("/:id", h.Courses.Get)
			courses.PUT("/:id", h.Courses.Update)
			courses.DELETE("/:id", h.Courses.Delete)
		}
		api.GET("/upcoming", h.Courses.Upcoming)
		api.GET("/statistics", h.Statistics.Summary)
		api.GET("/slots", h.Views.Slots)

		views := api.Group("/view")
		{
			views.GET("/grid", h.Views.Grid)
			views.GET("/charts", h.Views.Charts)
		}

		exports := api.Group("/exports")
		{
			exports.POST("", h.Exports.Create)
			exports.GET("/:token", h.Exports.Download)
		}
	}

	return r
}
