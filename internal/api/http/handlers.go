package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/monitoring"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/resilience"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/blob"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Upstream exposes the health of the generation endpoint
type Upstream interface {
	BreakerState() resilience.State
	BreakerCounts() resilience.Counts
}

// Handlers contains all HTTP handlers
type Handlers struct {
	store    *studio.Store
	blobs    *blob.Store
	upstream Upstream
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	policy   *bluemonday.Policy
}

// NewHandlers creates a new handler set. blobs, upstream and metrics may be nil.
func NewHandlers(
	store *studio.Store,
	blobs *blob.Store,
	upstream Upstream,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		store:    store,
		blobs:    blobs,
		upstream: upstream,
		metrics:  metrics,
		logger:   logger.Named("api"),
		policy:   bluemonday.StrictPolicy(),
	}
}

// Register mounts every studio route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/json", h.MetricsJSON)

	api := r.Group("/api", h.rejectWhenClosed)
	api.GET("/state", h.State)
	api.GET("/styles", h.Styles)
	api.GET("/phases", h.Phases)

	api.GET("/sessions", h.ListSessions)
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.DeleteSession)
	api.POST("/sessions/:id/select", h.SelectSession)
	api.POST("/messages", h.SendMessage)

	api.GET("/settings", h.GetSettings)
	api.PATCH("/settings", h.UpdateSettings)
	api.PUT("/settings/style", h.SetStyle)

	api.GET("/collections", h.ListCollections)
	api.POST("/collections", h.CreateCollection)
	api.DELETE("/collections/:id", h.DeleteCollection)
	api.POST("/collections/:id/renders", h.AddToCollection)
	api.GET("/collections/:id/renders/:renderId", h.CollectionMember)
	api.DELETE("/collections/:id/renders/:renderId", h.RemoveFromCollection)

	api.POST("/renders", h.Generate)
	api.GET("/renders/recent", h.RecentRenders)
	api.GET("/renders/current", h.CurrentRender)
	api.GET("/renders/stats", h.RenderStats)
	api.PUT("/renders/original", h.SetOriginalImage)
	api.POST("/renders/edit", h.Edit)
	api.POST("/renders/variations/:id/select", h.SelectVariation)

	api.PUT("/ui", h.UpdateUI)

	api.POST("/uploads", h.Upload)
	api.GET("/uploads/:key", h.GetUpload)

	api.POST("/logs", h.StreamLogs)
}

// Root answers the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Visionary Studio",
		"version": Version,
	})
}

// Health reports store and upstream status
func (h *Handlers) Health(c *gin.Context) {
	state := h.store.State()

	upstream := gin.H{"configured": h.upstream != nil}
	if h.upstream != nil {
		upstream["breaker"] = h.upstream.BreakerState().String()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store": gin.H{
			"sessions":      len(state.Sessions),
			"collections":   len(state.Collections),
			"recentRenders": len(state.RecentRenders),
			"generation":    state.Generation,
			"usage":         state.Usage,
		},
		"upstream": upstream,
		"uptime":   h.metrics.UptimeDuration().Round(time.Second).String(),
	})
}

// MetricsJSON returns a JSON summary next to the Prometheus endpoint
func (h *Handlers) MetricsJSON(c *gin.Context) {
	resp := gin.H{
		"timestamp":  time.Now().UTC(),
		"backend":    h.metrics.Snapshot(),
		"generation": h.store.GenerationStats(),
		"usage":      h.store.Usage(),
	}
	if h.upstream != nil {
		resp["upstream"] = gin.H{
			"breaker": h.upstream.BreakerState().String(),
			"counts":  h.upstream.BreakerCounts(),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// State returns the full observable state
func (h *Handlers) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State())
}

// Styles lists the design style catalog
func (h *Handlers) Styles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"styles": h.store.Catalog().Styles})
}

// Phases lists the generation phases
func (h *Handlers) Phases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"phases": h.store.Catalog().Phases})
}

// UpdateUI applies front-end toggles
func (h *Handlers) UpdateUI(c *gin.Context) {
	var patch types.UIPatch
	if !h.bind(c, &patch) {
		return
	}
	if err := h.store.UpdateUI(patch); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.store.UI())
}
