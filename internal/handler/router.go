package handler

import (
	"github.com/cleberrangel/time-perception-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers agrupa os handlers registrados no router
type Handlers struct {
	Health    *HealthHandler
	Entries   *EntryHandler
	Insights  *InsightHandler
	Export    *ExportHandler
	WebSocket *WebSocketHandler
}

// RouterOptions controla os middlewares globais
type RouterOptions struct {
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
}

// NewRouter monta todas as rotas da API
func NewRouter(h Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID()) // Request ID + logging estruturado
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(opts.CORSAllowedOrigins))
	r.Use(middleware.MetricsMiddleware())

	// Health e métricas ficam fora do rate limit
	r.GET("/health", h.Health.DetailedHealthCheck)
	r.GET("/health/live", h.Health.LivenessCheck)
	r.GET("/health/ready", h.Health.ReadinessCheck)
	r.GET("/metrics", h.Health.GetMetrics)
	r.GET("/metrics/summary", h.Health.GetMetricsSummary)
	r.GET("/metrics/endpoints", h.Health.GetEndpointMetrics)
	r.GET("/metrics/prometheus", h.Health.PrometheusMetrics())

	api := r.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware())
	}
	{
		api.POST("/entries", h.Entries.Create)
		api.GET("/entries", h.Entries.List)
		api.GET("/entries/:id", h.Entries.Get)
		api.DELETE("/entries/:id", h.Entries.Delete)

		insights := api.Group("/insights")
		insights.GET("/summary", h.Insights.Summary)
		insights.GET("/trends", h.Insights.Trends)
		insights.GET("/correlations", h.Insights.Correlations)
		insights.GET("/scatter", h.Insights.Scatter)
		insights.GET("/recommendations", h.Insights.Recommendations)
		insights.GET("/report", h.Insights.Report)

		api.GET("/export/entries.xlsx", h.Export.Entries)
	}

	if h.WebSocket != nil {
		r.GET("/ws", h.WebSocket.HandleConnection)
		r.GET("/ws/stats", h.WebSocket.GetConnectionStats)
	}

	return r
}
