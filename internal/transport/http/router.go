package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sanctionscan/internal/platform/metrics"
	"sanctionscan/internal/platform/middleware"
	"sanctionscan/pkg/platform/httputil"
	"sanctionscan/pkg/platform/middleware/requestscope"
)

// Registrar mounts a feature's endpoints.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires middleware, operational endpoints and the feature
// handlers. The transport layer holds no screening logic.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, requestTimeout time.Duration, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestscope.Middleware)
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)
	if requestTimeout > 0 {
		r.Use(chimw.Timeout(requestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	for _, h := range handlers {
		h.Register(r)
	}

	logger.Debug("router configured", "handlers", len(handlers))
	return r
}
