package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BilalX570/File-Management-System-Project/internal/infrastructure/monitoring"
)

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	Timestamp        time.Time                  `json:"timestamp"`
	Backend          monitoring.MetricsSnapshot `json:"backend"`
	AverageLatencyMs float64                    `json:"average_latency_ms"`
	ErrorRate        float64                    `json:"error_rate"`
	OperationFailure float64                    `json:"operation_failure_rate"`
}

// GetMetricsSummary returns the JSON view of the collected metrics
func (h *Handlers) GetMetricsSummary(c *gin.Context) {
	c.JSON(http.StatusOK, summarize(h.metrics.Snapshot(), time.Now()))
}

func summarize(s monitoring.MetricsSnapshot, now time.Time) MetricsSummary {
	summary := MetricsSummary{
		Timestamp: now,
		Backend:   s,
	}
	if s.TotalRequests > 0 {
		summary.AverageLatencyMs = s.TotalDuration / float64(s.TotalRequests) * 1000
		summary.ErrorRate = float64(s.TotalErrors) / float64(s.TotalRequests)
	}
	if s.TotalOperations > 0 {
		summary.OperationFailure = float64(s.FailedOps) / float64(s.TotalOperations)
	}
	return summary
}
