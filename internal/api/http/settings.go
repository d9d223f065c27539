package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// GetSettings returns the current render settings
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Settings())
}

// UpdateSettings merges a partial settings update
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var patch types.SettingsPatch
	if !h.bind(c, &patch) {
		return
	}
	if err := h.store.UpdateSettings(patch); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.store.Settings())
}

// SetStyle selects a catalog style by ID
func (h *Handlers) SetStyle(c *gin.Context) {
	var req types.StyleRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.store.SetStyleByID(req.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.store.Settings())
}
