package ws

import (
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/monitoring"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	outBuffer      = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced by the HTTP middleware
	},
}

// Handler streams store events to WebSocket clients and accepts chat and
// generate commands from them
type Handler struct {
	store   *studio.Store
	metrics *monitoring.Metrics
	logger  *logging.Logger
	policy  *bluemonday.Policy
}

// NewHandler creates a new WebSocket handler. metrics and logger may be nil.
func NewHandler(store *studio.Store, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		store:   store,
		metrics: metrics,
		logger:  logger.Named("ws"),
		policy:  bluemonday.StrictPolicy(),
	}
}

// client is one connection. Only the writer goroutine touches conn for
// writing; everything else goes through out.
type client struct {
	conn *websocket.Conn
	out  chan any
	done chan struct{} // reader finished
	gone chan struct{} // writer finished
}

func (cl *client) enqueue(msg any) {
	select {
	case cl.out <- msg:
	case <-cl.gone:
	}
}

// HandleConnection upgrades the request and serves the connection until
// either side closes it or the store shuts down
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	events, unsubscribe := h.store.Subscribe(studio.DefaultSubscriberBuffer)
	cl := &client{
		conn: conn,
		out:  make(chan any, outBuffer),
		done: make(chan struct{}),
		gone: make(chan struct{}),
	}

	go h.writeLoop(cl, events)

	h.logger.Debug("Client connected", zap.String("remote", c.ClientIP()))
	cl.enqueue(gin.H{
		"type":      "system",
		"message":   "Connected to Visionary Studio",
		"sessionId": h.store.ActiveSessionID(),
		"timestamp": time.Now().UTC(),
	})

	h.readLoop(cl)

	close(cl.done)
	unsubscribe()
	<-cl.gone
	conn.Close()
	h.logger.Debug("Client disconnected", zap.String("remote", c.ClientIP()))
}

func (h *Handler) readLoop(cl *client) {
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.metrics.RecordWSMessage("in", "invalid")
			cl.enqueue(errorMessage("invalid message"))
			continue
		}
		h.metrics.RecordWSMessage("in", msg.Type)
		h.dispatch(cl, msg)
	}
}

func (h *Handler) dispatch(cl *client, msg types.WSMessage) {
	switch msg.Type {
	case "ping":
		cl.enqueue(gin.H{"type": "pong", "timestamp": time.Now().UTC()})

	case "chat":
		content := h.sanitize(msg.Message)
		if err := studio.ValidateMessage(content, nil); err != nil {
			cl.enqueue(errorMessage(err.Error()))
			return
		}
		sessionID, sent, err := h.store.SendMessage(content, nil)
		if err != nil {
			cl.enqueue(errorMessage(err.Error()))
			return
		}
		cl.enqueue(gin.H{"type": "message_ack", "sessionId": sessionID, "message": sent})

	case "generate":
		if err := h.store.StartGenerate(h.sanitize(msg.Message)); err != nil {
			cl.enqueue(errorMessage(err.Error()))
		}

	default:
		cl.enqueue(errorMessage("unknown message type"))
	}
}

// writeLoop owns all writes on the connection
func (h *Handler) writeLoop(cl *client, events <-chan studio.Event) {
	defer close(cl.gone)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-cl.out:
			if !h.write(cl, msg) {
				return
			}

		case ev, ok := <-events:
			if !ok {
				// Store closed
				h.closeConn(cl, websocket.CloseGoingAway, "server shutting down")
				return
			}
			if !h.write(cl, ev) {
				return
			}

		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.conn.Close()
				return
			}

		case <-cl.done:
			h.closeConn(cl, websocket.CloseNormalClosure, "")
			return
		}
	}
}

func (h *Handler) write(cl *client, msg any) bool {
	data, err := sonic.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode message", zap.Error(err))
		return true
	}

	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		// Unblocks the reader
		cl.conn.Close()
		return false
	}
	h.metrics.RecordWSMessage("out", messageType(msg))
	return true
}

func (h *Handler) closeConn(cl *client, code int, reason string) {
	_ = cl.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeWait))
	if code != websocket.CloseNormalClosure {
		cl.conn.Close()
	}
}

func (h *Handler) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(s)))
}

func errorMessage(text string) gin.H {
	return gin.H{"type": "error", "message": text, "timestamp": time.Now().UTC()}
}

func messageType(msg any) string {
	switch m := msg.(type) {
	case studio.Event:
		return string(m.Kind)
	case gin.H:
		if t, ok := m["type"].(string); ok {
			return t
		}
	}
	return "unknown"
}
