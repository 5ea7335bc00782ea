package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/specmock/specmock/internal/engine"
	"github.com/specmock/specmock/internal/stats"
	"github.com/specmock/specmock/internal/tracing"
)

// Router serves the admin API under /_api and forwards everything else to
// the interception engine.
type Router struct {
	ginEngine      *gin.Engine
	mockEngine     *engine.Engine
	statsCollector *stats.Collector
	tracingService *tracing.Service
	handler        *Handler
}

// NewRouter creates a new router.
func NewRouter(mockEngine *engine.Engine, statsCollector *stats.Collector, tracingService *tracing.Service) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		ginEngine:      gin.New(),
		mockEngine:     mockEngine,
		statsCollector: statsCollector,
		tracingService: tracingService,
	}

	r.handler = NewHandler(mockEngine, statsCollector, tracingService)

	r.ginEngine.Use(gin.Recovery())
	r.ginEngine.Use(corsMiddleware())

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	api := r.ginEngine.Group("/_api")
	{
		api.GET("/handlers", r.handler.ListHandlers)

		api.GET("/stats", r.handler.GetGlobalStats)
		api.GET("/stats/handlers/:id", r.handler.GetHandlerStats)
		api.POST("/stats/reset", r.handler.ResetStats)

		api.GET("/traces", r.handler.ListTraces)
		api.GET("/traces/:id", r.handler.GetTrace)
		api.DELETE("/traces", r.handler.ClearTraces)

		api.GET("/health", r.handler.HealthCheck)
	}

	// WebSocket for live tracing.
	wsHandler := tracing.NewWebSocketHandler(r.tracingService)
	r.ginEngine.GET("/_api/traces/stream", gin.WrapH(wsHandler))

	// Everything else is an intercepted request.
	r.ginEngine.NoRoute(func(c *gin.Context) {
		r.mockEngine.ServeHTTP(c.Writer, c.Request)
	})
}

// Handler returns the http.Handler.
func (r *Router) Handler() http.Handler {
	return r.ginEngine
}

// corsMiddleware adds CORS headers for admin clients.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
