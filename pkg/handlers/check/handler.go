// Package check exposes the checkers over HTTP.
package check

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/adapters"
	"github.com/mule-tools/mule-atlas/pkg/models/api"
	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/registry"
	"github.com/mule-tools/mule-atlas/pkg/services/secrets"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

type Handler struct {
	registry registry.Registry
	cfg      settings.Config
}

func NewHandler(reg registry.Registry, cfg settings.Config) *Handler {
	return &Handler{
		registry: reg,
		cfg:      cfg,
	}
}

func (h *Handler) ListCheckers(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	response := api.CheckersResponse{Checkers: h.registry.ListCheckers()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode checker list")
	}
}

func (h *Handler) RunChecker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "checker")

	var req api.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	target := domain.Target{ProjectPath: req.ProjectPath, LogFiles: req.LogFiles}
	if len(target.LogFiles) == 0 {
		if target.ProjectPath == "" {
			http.Error(w, "project_path is required", http.StatusBadRequest)
			return
		}
		if _, err := os.Stat(target.ProjectPath); err != nil {
			http.Error(w, "project path does not exist", http.StatusBadRequest)
			return
		}
	}

	checker, err := h.registry.Create(name, h.cfg, *logger)
	if err != nil {
		http.Error(w, "unknown checker", http.StatusNotFound)
		return
	}

	res, err := checker.Run(ctx, target)
	if err != nil {
		logger.Error().
			Err(err).
			Str("checker", name).
			Msg("checker run failed")
		http.Error(w, "checker run failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	var encodeErr error
	if name == secrets.CheckerName {
		encodeErr = json.NewEncoder(w).Encode(adapters.MapResultDomainToSecurityApi(res))
	} else {
		encodeErr = json.NewEncoder(w).Encode(adapters.MapResultDomainToApi(res))
	}
	if encodeErr != nil {
		logger.Error().
			Err(encodeErr).
			Str("checker", name).
			Msg("failed to encode report")
	}
}
