package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// Generate starts a render. With wait=true it blocks until the render is
// written and returns it; otherwise it answers 202 once the cycle runs.
func (h *Handlers) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if !h.bind(c, &req) {
		return
	}
	prompt := h.sanitize(req.Prompt)

	if req.Wait {
		render, err := h.store.Generate(c.Request.Context(), prompt)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, render)
		return
	}

	if err := h.store.StartGenerate(prompt); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"generation": h.store.Generation()})
}

// RecentRenders lists up to twelve renders, most recent first
func (h *Handlers) RecentRenders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"renders": h.store.RecentRenders()})
}

// CurrentRender returns the render on the canvas with its variations
func (h *Handlers) CurrentRender(c *gin.Context) {
	render, ok := h.store.CurrentRender()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no current render"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"render":        render,
		"variations":    h.store.Variations(),
		"originalImage": h.store.OriginalImage(),
	})
}

// RenderStats reports generation durations, outcomes and usage
func (h *Handlers) RenderStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":      h.store.GenerationStats(),
		"usage":      h.store.Usage(),
		"generation": h.store.Generation(),
	})
}

// SetOriginalImage sets or clears the source image
func (h *Handlers) SetOriginalImage(c *gin.Context) {
	var req types.OriginalImageRequest
	if !h.bind(c, &req) {
		return
	}
	h.store.SetOriginalImage(req.URL)
	c.JSON(http.StatusOK, gin.H{"originalImage": h.store.OriginalImage()})
}

// Edit asks the editing endpoint to alter the current render
func (h *Handlers) Edit(c *gin.Context) {
	var req types.EditRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.store.Edit(c.Request.Context(), h.sanitize(req.Instruction))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SelectVariation shows a variation on the current render
func (h *Handlers) SelectVariation(c *gin.Context) {
	variationID := c.Param("id")
	if !h.store.SelectVariation(variationID) {
		notFound(c, "variation", variationID)
		return
	}
	render, _ := h.store.CurrentRender()
	c.JSON(http.StatusOK, render)
}
