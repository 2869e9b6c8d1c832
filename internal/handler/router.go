package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/handler/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/handler/contact"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/handler/persona"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/handler/stream"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/handler/widget"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	middlewarePkg "github.com/ravikanth-ks/whiterabbit/backend/internal/middleware"
	personaModel "github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
	chatService "github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
	contactService "github.com/ravikanth-ks/whiterabbit/backend/internal/service/contact"
	"github.com/ravikanth-ks/whiterabbit/backend/pkg/utils"
)

// Dependencies are the services the HTTP surface is built on.
type Dependencies struct {
	Personas       personaModel.Store
	Chat           *chatService.Service
	Contact        *contactService.Service
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := logging.OrNop(deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": deps.Chat.Count(),
		})
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		persona.New(deps.Personas, logger).RegisterRoutes(api)
		chat.New(deps.Chat, logger).RegisterRoutes(api)
		stream.New(deps.Chat, logger).RegisterRoutes(api)
		widget.NewWebSocketHandler(deps.Chat, logger, originChecker(deps.AllowedOrigins)).RegisterRoutes(api)
		if deps.Contact != nil {
			contact.New(deps.Contact, logger).RegisterRoutes(api)
		}
	})

	return r
}

// originChecker mirrors the CORS origin list for websocket upgrades.
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
