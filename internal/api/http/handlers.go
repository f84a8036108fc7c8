package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/workspace"
	"github.com/BilalX570/File-Management-System-Project/internal/infrastructure/monitoring"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	manager *workspace.Manager
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(manager *workspace.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		manager: manager,
		metrics: metrics,
		logger:  logger,
	}
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Files
	r.GET("/files", h.ListFiles)
	r.POST("/files", h.CreateFile)
	r.DELETE("/files", h.DeleteFile)
	r.DELETE("/files/all", h.DeleteAll)
	r.GET("/files/stat", h.StatFile)
	r.GET("/files/content", h.ReadContent)
	r.PUT("/files/content", h.WriteContent)
	r.POST("/files/touch", h.TouchFile)
	r.POST("/files/rename", h.RenameFile)
	r.POST("/files/sort", h.SortFiles)

	// Queries
	r.GET("/search", h.Search)
	r.GET("/totals", h.Totals)
	r.GET("/stats", h.Stats)
	r.GET("/browse", h.Browse)

	// Recycle bin
	r.GET("/recycle", h.ListRecycled)
	r.GET("/recycle/usage", h.RecycleUsage)
	r.POST("/recycle/:index/restore", h.RestoreRecycled)
	r.DELETE("/recycle/:index", h.PurgeRecycled)
	r.DELETE("/recycle", h.EmptyRecycleBin)
	r.POST("/recycle/orphans/reclaim", h.ReclaimOrphans)

	// Metrics summary; the Prometheus endpoint is mounted by the server
	if h.metrics != nil {
		r.GET("/metrics/json", h.GetMetricsSummary)
	}
}

// Root identifies the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "file workspace",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	ctx := c.Request.Context()
	layout := h.manager.Layout()

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"root":     layout.Root,
		"manifest": layout.Manifest,
		"records":  len(h.manager.List(ctx)),
		"recycle":  h.manager.RecycleUsage(ctx),
	})
}
