package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	contactService "github.com/ravikanth-ks/whiterabbit/backend/internal/service/contact"
	"github.com/ravikanth-ks/whiterabbit/backend/pkg/utils"
)

// Handler 联系表单的HTTP处理器
type Handler struct {
	contactSvc *contactService.Service
	logger     *zap.Logger
}

// New 创建联系表单处理器
func New(contactSvc *contactService.Service, logger *zap.Logger) *Handler {
	return &Handler{
		contactSvc: contactSvc,
		logger:     logging.OrNop(logger).Named("contact-handler"),
	}
}

// RegisterRoutes 注册联系表单路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.handleSubmit)
}

// Receipt 表单受理回执
type Receipt struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleSubmit 校验并受理联系表单
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var form contactService.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.contactSvc.Submit(r.Context(), form)
	if err != nil {
		var verr *contactService.ValidationError
		if errors.As(err, &verr) {
			_ = utils.RespondFieldErrors(w, http.StatusUnprocessableEntity, "invalid contact form", verr.Fields)
			return
		}
		h.logger.Error("contact submit failed", zap.Error(err))
		_ = utils.RespondError(w, http.StatusInternalServerError, "transmission failed")
		return
	}

	if err := utils.RespondJSON(w, http.StatusAccepted, Receipt{
		ID:      t.ID,
		Status:  "Transmission Received",
		Message: contactService.Acknowledgement,
	}); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}
