package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/chat"
	chatService "github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/pkg/utils"
)

// Handler 聊天会话的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		logger:  logging.OrNop(logger).Named("chat-handler"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleDeleteSession)
		r.Post("/open", h.handleOpen)
		r.Post("/close", h.handleClose)
		r.Put("/input", h.handleSetInput)
		r.Post("/messages", h.handleSubmit)
	})
}

type textPayload struct {
	Text string `json:"text"`
}

// handleCreateSession 创建会话，personaId为空时使用默认persona
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}
	if err := decode(r, &payload); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.PersonaID)
	if err != nil {
		h.fail(w, statusFor(err), err.Error())
		return
	}

	h.respond(w, http.StatusCreated, session.Snapshot())
}

// handleGetSession 获取会话快照
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, session.Snapshot())
}

// handleDeleteSession 卸载会话并丢弃记录
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.fail(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleOpen 打开聊天窗口
func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Open()
	h.respond(w, http.StatusOK, session.Snapshot())
}

// handleClose 关闭聊天窗口，记录保持不变
func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Close()
	h.respond(w, http.StatusOK, session.Snapshot())
}

// handleSetInput 更新输入框内容
func (h *Handler) handleSetInput(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload textPayload
	if err := decode(r, &payload); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session.SetInput(payload.Text)
	h.respond(w, http.StatusOK, session.Snapshot())
}

// handleSubmit 提交用户消息，阻塞直到本轮对话结束
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload textPayload
	if err := decode(r, &payload); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := session.Submit(r.Context(), payload.Text)
	if err != nil {
		h.fail(w, statusFor(err), err.Error())
		return
	}

	h.respond(w, http.StatusOK, submitResponse{Reply: reply, Session: session.Snapshot()})
}

type submitResponse struct {
	Reply   chat.Message  `json:"reply"`
	Session chat.Snapshot `json:"session"`
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*chatService.Session, bool) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, statusFor(err), err.Error())
		return nil, false
	}
	return session, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrPersonaNotFound), errors.Is(err, chatService.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decode accepts an empty body as the zero payload.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) respond(w http.ResponseWriter, status int, payload any) {
	if err := utils.RespondJSON(w, status, payload); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Int("status", status), zap.String("error", message))
	}
	if err := utils.RespondError(w, status, message); err != nil {
		h.logger.Warn("failed to encode error response", zap.Error(err))
	}
}
