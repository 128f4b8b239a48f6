package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/metrics"
	"github.com/cleberrangel/time-perception-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

const (
	maxHeapMB           = 512
	maxDashboardClients = 50
)

// HealthHandler handles health check and metrics endpoints
type HealthHandler struct {
	db        *sql.DB
	wsHub     *websocket.Hub
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler. wsHub pode ser nil.
func NewHealthHandler(db *sql.DB, wsHub *websocket.Hub, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		wsHub:     wsHub,
		version:   version,
		startTime: time.Now(),
	}
}

// LivenessCheck returns basic liveness status
// @Router /health/live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck verifica banco e memória
// @Router /health/ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	h.respond(c, map[string]metrics.HealthStatus{
		"database": metrics.CheckDatabaseHealth(h.db),
		"memory":   metrics.CheckMemoryHealth(maxHeapMB),
	})
}

// DetailedHealthCheck inclui o hub de WebSocket
// @Router /health [get]
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	components := map[string]metrics.HealthStatus{
		"database": metrics.CheckDatabaseHealth(h.db),
		"memory":   metrics.CheckMemoryHealth(maxHeapMB),
	}
	if h.wsHub != nil {
		components["websocket"] = h.checkWebSocketHealth()
	}

	h.respond(c, components)
}

func (h *HealthHandler) respond(c *gin.Context, components map[string]metrics.HealthStatus) {
	overallStatus := metrics.DetermineOverallStatus(components)

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, metrics.HealthCheck{
		Status:     overallStatus,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	})
}

func (h *HealthHandler) checkWebSocketHealth() metrics.HealthStatus {
	if h.wsHub.ConnectionCount() > maxDashboardClients {
		return metrics.HealthStatus{
			Status:  "degraded",
			Message: "Muitos dashboards conectados",
		}
	}
	return metrics.HealthStatus{Status: "healthy"}
}

// GetMetrics returns application metrics
// @Router /metrics [get]
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Get().Snapshot())
}

// GetMetricsSummary returns a summary of key metrics
// @Router /metrics/summary [get]
func (h *HealthHandler) GetMetricsSummary(c *gin.Context) {
	snapshot := metrics.Get().Snapshot()

	requestSuccessRate := float64(0)
	if snapshot.Requests.Total > 0 {
		requestSuccessRate = float64(snapshot.Requests.Successful) / float64(snapshot.Requests.Total) * 100
	}

	cacheHitRate := float64(0)
	lookups := snapshot.Insights.CacheHits + snapshot.Insights.CacheMisses
	if lookups > 0 {
		cacheHitRate = float64(snapshot.Insights.CacheHits) / float64(lookups) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": snapshot.UptimeSeconds,
		"version":        h.version,
		"requests": gin.H{
			"total":        snapshot.Requests.Total,
			"success_rate": requestSuccessRate,
			"avg_latency":  snapshot.Requests.AvgLatencyMs,
		},
		"entries": gin.H{
			"created": snapshot.Entries.Created,
			"deleted": snapshot.Entries.Deleted,
		},
		"insights": gin.H{
			"computations":   snapshot.Insights.Computations,
			"cache_hit_rate": cacheHitRate,
		},
		"exports": gin.H{
			"generated": snapshot.Exports.Generated,
			"errors":    snapshot.Exports.Errors,
		},
		"websocket": gin.H{
			"connections": snapshot.WebSocket.Connections,
		},
		"system": gin.H{
			"goroutines":  snapshot.System.Goroutines,
			"heap_mb":     snapshot.System.HeapAllocMB,
			"heap_use_mb": snapshot.System.HeapInUseMB,
		},
	})
}

// GetEndpointMetrics returns metrics for specific endpoints
// @Router /metrics/endpoints [get]
func (h *HealthHandler) GetEndpointMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoints": metrics.Get().Snapshot().Endpoints,
	})
}

// PrometheusMetrics expõe o registro Prometheus em formato texto
// @Router /metrics/prometheus [get]
func (h *HealthHandler) PrometheusMetrics() gin.HandlerFunc {
	return gin.WrapH(metrics.Handler())
}
