// Package handlers provides HTTP handlers for monitoring and health endpoints.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/server/responses"
	"git.home.luguber.info/inful/docshelf/internal/version"
)

// StatusSource exposes what the health endpoint reports about the server.
type StatusSource interface {
	StartTime() time.Time
	// Serving returns the version resolved at startup.
	Serving() string
	// Published returns the latest version and listing from the manifest.
	Published() (latest string, versions []string)
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	source       StatusSource
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(source StatusSource) *MonitoringHandlers {
	return &MonitoringHandlers{
		source:       source,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		err := derrors.ValidationError("invalid HTTP method").
			WithSeverity(derrors.SeverityWarning).
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	latest, versions := h.source.Published()
	if versions == nil {
		versions = []string{}
	}
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.source.StartTime()).Seconds(),
		Serving:   h.source.Serving(),
		Latest:    latest,
		Versions:  versions,
	}

	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		internalErr := derrors.WrapError(err, derrors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
