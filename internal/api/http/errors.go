package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// statusFor maps a failure kind to an HTTP status.
func statusFor(kind failure.Kind) int {
	switch kind {
	case failure.KindValidation:
		return http.StatusBadRequest
	case failure.KindNotFound:
		return http.StatusNotFound
	case failure.KindConflict:
		return http.StatusConflict
	case failure.KindCapacity:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error","kind","op","path"}.
func (h *Handlers) respondError(c *gin.Context, err error) {
	kind := failure.KindOf(err)
	status := statusFor(kind)

	body := gin.H{
		"error": err.Error(),
		"kind":  kind.String(),
	}
	var fe *failure.Error
	if errors.As(err, &fe) {
		body["op"] = fe.Op
		body["path"] = fe.Path
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// badRequest reports malformed input that never reached the domain.
func (h *Handlers) badRequest(c *gin.Context, op string, err error) {
	h.respondError(c, failure.Validation(op, "", err))
}
