package widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/chat"
	chatservice "github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

// Inbound frame types.
const (
	FrameOpen   = "open"
	FrameClose  = "close"
	FrameInput  = "input"
	FrameSubmit = "submit"
)

// Outbound frame types.
const (
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

// WebSocketHandler drives a widget session over a websocket.
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket handler. checkOrigin may be nil to allow any origin.
func NewWebSocketHandler(chatSvc *chatservice.Service, logger *zap.Logger, checkOrigin func(*http.Request) bool) *WebSocketHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &WebSocketHandler{
		chatSvc: chatSvc,
		logger:  logging.OrNop(logger).Named("ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// InboundFrame is a command sent by the widget.
type InboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// OutboundFrame is pushed to the widget.
type OutboundFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	ws        *websocket.Conn
	sessionID string
	logger    *zap.Logger

	mu sync.Mutex
}

func (c *conn) write(frameType string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(OutboundFrame{
		Type:      frameType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *conn) sendError(message string) {
	if err := c.write(FrameError, map[string]string{"message": message}); err != nil {
		c.logger.Debug("write error frame failed", zap.Error(err))
	}
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	c := &conn{ws: ws, sessionID: sessionID, logger: h.logger.With(zap.String("session", sessionID))}
	c.logger.Info("connection opened")
	defer c.logger.Info("connection closed")

	ctx, cancel := context.WithCancel(r.Context())

	updates, unsubscribe := session.Subscribe()
	defer unsubscribe()

	if err := c.write(FrameSnapshot, session.Snapshot()); err != nil {
		cancel()
		return
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(2)
	go func() {
		defer wg.Done()
		h.pingLoop(ctx, c)
	}()
	go func() {
		defer wg.Done()
		h.pushLoop(ctx, c, updates, ws)
	}()

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame InboundFrame
		if err := ws.ReadJSON(&frame); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError("malformed frame")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", zap.Error(err))
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		h.handleFrame(ctx, c, session, frame, &wg)
	}
}

func (h *WebSocketHandler) handleFrame(ctx context.Context, c *conn, session *chatservice.Session, frame InboundFrame, wg *sync.WaitGroup) {
	switch frame.Type {
	case FrameOpen:
		session.Open()
	case FrameClose:
		session.Close()
	case FrameInput:
		session.SetInput(frame.Text)
		// input changes are not broadcast; echo so the sender sees the buffer
		if err := c.write(FrameSnapshot, session.Snapshot()); err != nil {
			c.logger.Debug("write snapshot failed", zap.Error(err))
		}
	case FrameSubmit:
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := session.Submit(ctx, frame.Text); err != nil {
				c.sendError(err.Error())
			}
		}()
	default:
		c.sendError("unsupported frame type: " + frame.Type)
	}
}

func (h *WebSocketHandler) pushLoop(ctx context.Context, c *conn, updates <-chan chat.Snapshot, ws *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				c.mu.Lock()
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeWait))
				c.mu.Unlock()
				return
			}
			if err := c.write(FrameSnapshot, snap); err != nil {
				c.logger.Debug("write snapshot failed", zap.Error(err))
				return
			}
		}
	}
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
