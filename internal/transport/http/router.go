package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pihooks/internal/platform/middleware"
	"pihooks/pkg/platform/httputil"
)

// NewRouter wires the inspection API. metrics serves /metrics; a nil
// validator leaves /v1 unauthenticated.
func NewRouter(h *Handler, validator middleware.JWTValidator, metrics http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/v1", func(v1 chi.Router) {
		if validator != nil {
			v1.Use(middleware.RequireAuth(validator, logger))
		}
		h.Register(v1)
	})
	return r
}
