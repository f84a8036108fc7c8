package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// ListRecycled lists staged items, oldest first
func (h *Handlers) ListRecycled(c *gin.Context) {
	ctx := c.Request.Context()
	items := h.manager.ListRecycled(ctx)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"usage": h.manager.RecycleUsage(ctx),
	})
}

// RecycleUsage reports occupancy against the quota
func (h *Handlers) RecycleUsage(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.RecycleUsage(c.Request.Context()))
}

// RestoreRecycled moves an item back and re-indexes it
func (h *Handlers) RestoreRecycled(c *gin.Context) {
	index, ok := h.itemIndex(c, "restore")
	if !ok {
		return
	}

	rec, err := h.manager.RestoreRecycled(c.Request.Context(), index)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": rec.Snapshot()})
}

// PurgeRecycled drops an item; permanent=true also deletes its backup
func (h *Handlers) PurgeRecycled(c *gin.Context) {
	index, ok := h.itemIndex(c, "purge")
	if !ok {
		return
	}

	permanent, err := strconv.ParseBool(c.DefaultQuery("permanent", "true"))
	if err != nil {
		h.badRequest(c, "purge", err)
		return
	}

	item, err := h.manager.PurgeRecycled(c.Request.Context(), index, permanent)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purged":    item,
		"permanent": permanent,
	})
}

// EmptyRecycleBin permanently deletes every staged item
func (h *Handlers) EmptyRecycleBin(c *gin.Context) {
	report := h.manager.EmptyRecycleBin(c.Request.Context())

	status := http.StatusOK
	if len(report.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}

// ReclaimOrphans deletes backups left behind by soft purges
func (h *Handlers) ReclaimOrphans(c *gin.Context) {
	report := h.manager.ReclaimOrphans(c.Request.Context())

	status := http.StatusOK
	if len(report.Remaining) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}

func (h *Handlers) itemIndex(c *gin.Context, op string) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.respondError(c, failure.NotFound(op, c.Param("index"), failure.ErrInvalidIndex))
		return 0, false
	}
	return index, true
}
