package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sanctionscan/internal/screening/models"
	"sanctionscan/pkg/platform/httputil"
	"sanctionscan/pkg/requestcontext"
)

// RunIDHeader carries the screening run ID back to the caller.
const RunIDHeader = "X-Run-ID"

// Service defines the interface for screening runs.
type Service interface {
	Run(ctx context.Context) (*models.MatchReport, error)
}

// Handler exposes the screening trigger over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a screening handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/sanctions_check", h.HandleSanctionsCheck)
}

// HandleSanctionsCheck handles GET /sanctions_check. Every outcome is a 200
// JSON body: the report, or an error envelope.
func (h *Handler) HandleSanctionsCheck(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	ctx := requestcontext.WithRunID(r.Context(), runID)
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	w.Header().Set(RunIDHeader, runID)

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.ErrorContext(ctx, "sanctions check panicked",
				"request_id", requestID,
				"run_id", runID,
				"panic", rec,
			)
			httputil.WriteError(w, http.StatusOK, fmt.Errorf("internal error: %v", rec))
		}
	}()

	report, err := h.service.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sanctions check failed",
			"request_id", requestID,
			"run_id", runID,
			"error", err,
		)
		httputil.WriteError(w, http.StatusOK, err)
		return
	}

	h.logger.InfoContext(ctx, "sanctions check completed",
		"request_id", requestID,
		"run_id", runID,
		"matches", report.Total(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromReport(report))
}
