package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// CreateRequest creates a file or directory.
type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Content  string `json:"content"`
	Dir      bool   `json:"dir"`
	Position *int   `json:"position"`
}

// ContentRequest replaces or extends a document's content.
type ContentRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
	Append  bool   `json:"append"`
}

// NameRequest addresses a single record.
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameRequest renames a record.
type RenameRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// SortRequest reorders the index.
type SortRequest struct {
	Key string `json:"key" binding:"required"`
}

var errNameOrPosition = errors.New("either name or position is required")

// ListFiles lists every record in index order
func (h *Handlers) ListFiles(c *gin.Context) {
	ctx := c.Request.Context()
	records := h.manager.List(ctx)

	files := make([]catalog.Record, 0, len(records))
	for _, rec := range records {
		files = append(files, rec.Snapshot())
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"count": len(files),
	})
}

// CreateFile creates a file or directory at an optional position
func (h *Handlers) CreateFile(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create", err)
		return
	}

	position := catalog.LastPosition
	if req.Position != nil {
		position = *req.Position
	}

	ctx := c.Request.Context()
	var (
		rec catalog.Record
		err error
	)
	if req.Dir {
		rec, err = h.manager.CreateDirectory(ctx, req.Name, position)
	} else {
		rec, err = h.manager.CreateFile(ctx, req.Name, req.Content, position)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": rec.Snapshot()})
}

// StatFile returns one record's metadata
func (h *Handlers) StatFile(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		h.badRequest(c, "stat", failure.ErrInvalidName)
		return
	}

	rec, err := h.manager.Find(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": rec.Snapshot()})
}

// ReadContent re-reads a file from disk and returns its content
func (h *Handlers) ReadContent(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		h.badRequest(c, "read", failure.ErrInvalidName)
		return
	}

	rec, err := h.manager.Read(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": rec})
}

// WriteContent overwrites or appends to a document
func (h *Handlers) WriteContent(c *gin.Context) {
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "write", err)
		return
	}

	ctx := c.Request.Context()
	var (
		rec catalog.Record
		err error
	)
	if req.Append {
		rec, err = h.manager.Append(ctx, req.Name, req.Content)
	} else {
		rec, err = h.manager.Overwrite(ctx, req.Name, req.Content)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": rec.Snapshot()})
}

// TouchFile refreshes a record's metadata from disk
func (h *Handlers) TouchFile(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "touch", err)
		return
	}

	rec, err := h.manager.Touch(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": rec.Snapshot()})
}

// DeleteFile stages one record in the recycle bin, addressed by name or
// position
func (h *Handlers) DeleteFile(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Query("name")
	pos := c.Query("position")

	switch {
	case name != "":
		item, err := h.manager.Delete(ctx, name)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recycled": item})

	case pos != "":
		position, err := strconv.Atoi(pos)
		if err != nil {
			h.badRequest(c, "delete", failure.ErrInvalidPosition)
			return
		}
		item, err := h.manager.DeleteAt(ctx, position)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recycled": item})

	default:
		h.badRequest(c, "delete", errNameOrPosition)
	}
}

// DeleteAll stages every record; failures stay indexed and are reported
func (h *Handlers) DeleteAll(c *gin.Context) {
	report, err := h.manager.DeleteAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusOK
	if len(report.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}

// RenameFile renames a record on disk and in the index
func (h *Handlers) RenameFile(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "rename", err)
		return
	}

	rec, err := h.manager.Rename(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": rec.Snapshot()})
}

// SortFiles reorders the index by name, size or modification time
func (h *Handlers) SortFiles(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "sort", err)
		return
	}

	key, err := catalog.ParseSortKey(req.Key)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.manager.Sort(ctx, key); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"names": names(h.manager.List(ctx)),
	})
}

// Search runs one query: kind=prefix|content|glob with term, kind=category
// with category, kind=size with min and max
func (h *Handlers) Search(c *gin.Context) {
	q := catalog.Query{
		Kind: catalog.QueryKind(c.Query("kind")),
		Term: c.Query("term"),
	}

	switch q.Kind {
	case catalog.QueryCategory:
		cat, ok := catalog.ParseCategory(c.Query("category"))
		if !ok {
			h.badRequest(c, "search", failure.ErrInvalidQuery)
			return
		}
		q.Category = cat
	case catalog.QuerySize:
		min, errMin := strconv.ParseInt(c.DefaultQuery("min", "0"), 10, 64)
		max, errMax := strconv.ParseInt(c.Query("max"), 10, 64)
		if errMin != nil || errMax != nil {
			h.badRequest(c, "search", failure.ErrInvalidSizeRange)
			return
		}
		q.Min, q.Max = min, max
	}

	recs, err := h.manager.Search(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	results := make([]catalog.Record, 0, len(recs))
	for _, rec := range recs {
		results = append(results, rec.Snapshot())
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"results": results,
		"count":   len(results),
	})
}

// Totals sums sizes per category
func (h *Handlers) Totals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"totals": h.manager.Totals(c.Request.Context())})
}

// Stats summarizes file sizes
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.manager.Stats(c.Request.Context())})
}

// Browse lists a backing directory, marking indexed entries
func (h *Handlers) Browse(c *gin.Context) {
	dir := c.DefaultQuery("dir", "")

	entries, err := h.manager.Browse(c.Request.Context(), dir)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dir":     dir,
		"entries": entries,
	})
}

func names(recs []catalog.Record) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Name
	}
	return out
}
