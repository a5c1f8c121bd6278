package router

import (
	"github.com/gin-gonic/gin"

	"docintel/internal/config"
	"docintel/internal/handler"
	"docintel/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	extractH *handler.ExtractHandler,
	recordH *handler.RecordHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware. RequestID runs first so the logger and recovery
	// handler can tag their lines with it.
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Extraction routes
	v1.POST("/extract", extractH.Extract)
	v1.POST("/extract/batch", extractH.ExtractBatch)

	// Stored record routes
	records := v1.Group("/records")
	records.GET("", recordH.List)
	records.GET("/export", recordH.Export)
	records.GET("/:id", recordH.Get)
	records.DELETE("/:id", recordH.Delete)

	return r
}
