package http

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/blob"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/storage"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, studio.ErrGenerationInFlight),
		errors.Is(err, studio.ErrNoCurrentRender):
		return http.StatusConflict
	case errors.Is(err, studio.ErrEditFailed):
		return http.StatusBadGateway
	case errors.Is(err, studio.ErrStyleNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, blob.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, blob.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, studio.ErrEmptyPrompt),
		errors.Is(err, studio.ErrEmptyMessage),
		errors.Is(err, studio.ErrInvalidAttachment),
		errors.Is(err, studio.ErrInvalidSettings),
		errors.Is(err, studio.ErrInvalidName),
		errors.Is(err, studio.ErrInvalidUI),
		errors.Is(err, blob.ErrEmpty),
		errors.Is(err, blob.ErrInvalidRef):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": ...} with its mapped status
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// bind decodes the JSON body into v, answering 400 on failure
func (h *Handlers) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return false
	}
	return true
}

// rejectWhenClosed answers 503 to writes once the store is shut down. Reads
// keep serving the final state.
func (h *Handlers) rejectWhenClosed(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		c.Next()
		return
	}
	if h.store.Closed() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": studio.ErrClosed.Error()})
		return
	}
	c.Next()
}

func notFound(c *gin.Context, what, id string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found", "id": id})
}

// sanitize strips markup from user text. Entities produced by the policy
// are decoded again so plain text such as "kitchen & dining" survives.
func (h *Handlers) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(s)))
}
