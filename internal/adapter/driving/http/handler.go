package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/releasedash/internal/application"
	"github.com/ericfisherdev/releasedash/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	statsSvc  *application.StatsService
	ingestSvc *application.IngestService
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	statsSvc *application.StatsService,
	ingestSvc *application.IngestService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		statsSvc:  statsSvc,
		ingestSvc: ingestSvc,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/stats", h.GetStats)
	mux.HandleFunc("GET /api/v1/status", h.Status)
	mux.HandleFunc("POST /api/v1/refresh", h.TriggerRefresh)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// GetStats returns the aggregate views over the persisted release set,
// narrowed by the optional startDate, endDate, and repository query
// parameters.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	var filter model.QueryFilter

	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseDateParam(v, false)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate: expected YYYY-MM-DD or RFC 3339")
			return
		}
		filter.StartDate = t
	}

	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseDateParam(v, true)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate: expected YYYY-MM-DD or RFC 3339")
			return
		}
		filter.EndDate = t
	}

	filter.Repository = r.URL.Query().Get("repository")

	payload, err := h.statsSvc.Query(r.Context(), filter)
	if err != nil {
		h.logger.Error("stats query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(payload))
}

// Status reports whether an ingestion run is executing and summarizes the
// most recent completed run.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(h.ingestSvc.Running(), h.ingestSvc.LastReport()))
}

// TriggerRefresh starts an ingestion run outside the periodic schedule. It
// answers 409 when a run is already executing.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, _ *http.Request) {
	if h.ingestSvc.Running() {
		writeError(w, http.StatusConflict, "ingestion run already in progress")
		return
	}

	// Fire-and-forget with background context since the HTTP request context
	// will be cancelled after the response is sent.
	go func() {
		if err := h.ingestSvc.Refresh(context.Background()); err != nil {
			h.logger.Error("manual refresh failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, RefreshResponse{Status: "started"})
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// parseDateParam accepts a bare date or a full RFC 3339 timestamp. A bare
// date used as an end bound is widened to the last instant of that day so
// the inclusive window covers the whole day.
func parseDateParam(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
