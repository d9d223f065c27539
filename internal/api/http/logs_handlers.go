package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxLogEntries = 100

// UILogEntry represents a log entry from the studio front end
type UILogEntry struct {
	ID        string         `json:"id"`
	Level     string         `json:"level"`
	Message   string         `json:"message" binding:"required"`
	Context   map[string]any `json:"context"`
	Timestamp string         `json:"timestamp"`
}

// UILogStreamRequest represents a batch of logs from the front end
type UILogStreamRequest struct {
	Source  string       `json:"source" binding:"required,eq=ui"`
	Entries []UILogEntry `json:"entries" binding:"required,min=1,dive"`
}

// StreamLogs forwards front-end log entries into the server log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req UILogStreamRequest
	if !h.bind(c, &req) {
		return
	}
	if len(req.Entries) > maxLogEntries {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many log entries"})
		return
	}

	logger := h.logger.Named("ui")
	for _, entry := range req.Entries {
		fields := make([]zap.Field, 0, len(entry.Context)+2)
		fields = append(fields,
			zap.String("uiLogId", entry.ID),
			zap.String("uiTimestamp", entry.Timestamp))
		for key, value := range entry.Context {
			fields = append(fields, zap.Any(key, value))
		}

		message := h.sanitize(entry.Message)
		switch entry.Level {
		case "error":
			logger.Error(message, fields...)
		case "warn":
			logger.Warn(message, fields...)
		case "debug", "verbose":
			logger.Debug(message, fields...)
		default:
			logger.Info(message, fields...)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"entriesReceived": len(req.Entries),
		"timestamp":       time.Now().Unix(),
	})
}
