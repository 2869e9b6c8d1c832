package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
	"github.com/ravikanth-ks/whiterabbit/backend/pkg/utils"
)

// Handler persona与个人资料的HTTP处理器
type Handler struct {
	personas persona.Store
	logger   *zap.Logger
}

// New 创建persona处理器
func New(personas persona.Store, logger *zap.Logger) *Handler {
	return &Handler{
		personas: personas,
		logger:   logging.OrNop(logger).Named("persona"),
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
	r.Get("/profile", h.handleProfile)
}

// handleListPersonas 列出所有persona
func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.personas.List())
}

// handleProfile 返回作品集主人的资料
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.personas.Profile())
}

func (h *Handler) respond(w http.ResponseWriter, status int, payload any) {
	if err := utils.RespondJSON(w, status, payload); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}
