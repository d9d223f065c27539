package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// ListSessions lists session summaries, newest first
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions":         h.store.SessionSummaries(),
		"currentSessionId": h.store.ActiveSessionID(),
	})
}

// CreateSession opens a new active session
func (h *Handlers) CreateSession(c *gin.Context) {
	sessionID := h.store.CreateSession()
	if sessionID == "" {
		h.fail(c, studio.ErrClosed)
		return
	}
	session, _ := h.store.Session(sessionID)
	c.JSON(http.StatusCreated, session)
}

// GetSession returns one session with its messages
func (h *Handlers) GetSession(c *gin.Context) {
	sessionID := c.Param("id")
	session, ok := h.store.Session(sessionID)
	if !ok {
		notFound(c, "session", sessionID)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session
func (h *Handlers) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")
	if !h.store.DeleteSession(sessionID) {
		notFound(c, "session", sessionID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessionId": sessionID})
}

// SelectSession moves the active pointer. Unknown IDs are accepted and
// reported with success=false.
func (h *Handlers) SelectSession(c *gin.Context) {
	sessionID := c.Param("id")
	known := h.store.SelectSession(sessionID)
	c.JSON(http.StatusOK, gin.H{"success": known, "sessionId": sessionID})
}

// SendMessage appends a user message to the active session
func (h *Handlers) SendMessage(c *gin.Context) {
	var req types.MessageRequest
	if !h.bind(c, &req) {
		return
	}

	content := h.sanitize(req.Content)
	if err := studio.ValidateMessage(content, req.Attachments); err != nil {
		h.fail(c, err)
		return
	}

	sessionID, msg, err := h.store.SendMessage(content, req.Attachments)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sessionId": sessionID, "message": msg})
}
