package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/api/handlers"
	"github.com/tyee-ai/gpu-thermal/internal/api/middleware"
	"github.com/tyee-ai/gpu-thermal/internal/config"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
	"github.com/tyee-ai/gpu-thermal/pkg/utils"
)

// Router manages API routing and handlers
type Router struct {
	engine        *gin.Engine
	logger        *zap.Logger
	eventHandler  *handlers.EventHandler
	gpuHandler    *handlers.GPUHandler
	uploadHandler *handlers.UploadHandler
}

// NewRouter creates a new API router with all handlers initialized
func NewRouter(
	events storage.EventRepository,
	metadata storage.GPUMetadataRepository,
	ingester handlers.CSVIngester,
	ingestCfg config.IngestConfig,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := &Router{
		engine:        gin.New(),
		logger:        logger,
		eventHandler:  handlers.NewEventHandler(events),
		gpuHandler:    handlers.NewGPUHandler(events, metadata),
		uploadHandler: handlers.NewUploadHandler(ingester, ingestCfg.UploadDir, ingestCfg.MaxUploadBytes, logger),
	}

	router.setupMiddleware()
	router.setupRoutes()

	return router
}

// setupMiddleware configures global middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.RequestIDMiddleware())
	r.engine.Use(middleware.LoggingMiddleware(r.logger))
	r.engine.Use(middleware.ErrorHandlerMiddleware(r.logger))

	r.engine.Use(cors.New(
		cors.Config{
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowOrigins:  []string{"*"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        300 * time.Second,
		},
	))

	// Recovery middleware (catch panics)
	r.engine.Use(gin.Recovery())
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": utils.FormatTimestamp(utils.NowUTC()),
		})
	})

	r.engine.POST("/upload", r.uploadHandler.Upload)

	api := r.engine.Group("/api")
	{
		api.GET("/data", r.eventHandler.GetData)
		api.GET("/stats", r.eventHandler.GetStats)
		api.GET("/timeseries", r.eventHandler.GetTimeSeries)

		gpus := api.Group("/gpus")
		{
			gpus.GET("", r.gpuHandler.ListGPUs)
			gpus.GET("/:gpu_id", r.gpuHandler.GetGPU)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
