package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	chatService "github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/pkg/utils"
)

const defaultKeepAlive = 15 * time.Second

// SSE event names.
const (
	EventSnapshot = "snapshot"
	EventClosed   = "closed"
)

// Handler pushes session snapshots to the browser via Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	logger    *zap.Logger
	keepAlive time.Duration
}

// New creates a new stream handler.
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		logger:    logging.OrNop(logger).Named("sse"),
		keepAlive: defaultKeepAlive,
	}
}

// RegisterRoutes mounts the stream endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// handleStream sends the current snapshot, then one snapshot per session change until
// the client goes away or the session is deleted.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		_ = utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		_ = utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates, cancel := session.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	logger := h.logger.With(zap.String("session", sessionID))
	logger.Info("stream opened")
	defer logger.Info("stream closed")

	if err := utils.SendSSEEvent(w, flusher, EventSnapshot, session.Snapshot()); err != nil {
		logger.Warn("send snapshot failed", zap.Error(err))
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				_ = utils.SendSSEEvent(w, flusher, EventClosed, map[string]string{"sessionId": sessionID})
				return
			}
			if err := utils.SendSSEEvent(w, flusher, EventSnapshot, snap); err != nil {
				logger.Warn("send snapshot failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keepalive"); err != nil {
				return
			}
		}
	}
}
