package router

import (
	"github.com/gin-gonic/gin"

	"poflow/internal/handler"
	"poflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	recordH *handler.RecordHandler,
	processorH *handler.ProcessorHandler,
	statsH *handler.StatsHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Processor resource names contain escaped slashes; match on the raw
	// path and leave decoding to the handlers.
	r.UseRawPath = true
	r.UnescapePathValues = false

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Record routes
	records := v1.Group("/records")
	records.POST("/process", recordH.Process)
	records.GET("", recordH.List)
	records.GET("/export", recordH.Export)
	records.GET("/:id", recordH.GetByID)
	records.GET("/:id/file", recordH.Download)
	records.PUT("/:id/review", recordH.Review)
	records.POST("/:id/send", recordH.Send)
	records.DELETE("/:id", recordH.Delete)

	// Processor administration
	processors := v1.Group("/processors")
	processors.GET("", processorH.List)
	processors.POST("", processorH.Create)
	processors.GET("/:name/schema", processorH.GetSchema)
	processors.DELETE("/:name", processorH.Delete)

	// Stats
	v1.GET("/stats", statsH.GetStats)

	return r
}
