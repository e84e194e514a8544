package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/services"
)

// ConfigurationHandler reads and writes per-wiki review policies.
type ConfigurationHandler struct {
	service services.ConfigurationService
	logger  *zap.Logger
}

// NewConfigurationHandler creates a new ConfigurationHandler.
func NewConfigurationHandler(service services.ConfigurationService, logger *zap.Logger) *ConfigurationHandler {
	return &ConfigurationHandler{service: service, logger: logger}
}

// RegisterRoutes registers the configuration routes on the given mux.
func (h *ConfigurationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/wikis/{code}/configuration", h.Get)
	mux.HandleFunc("PUT /api/wikis/{code}/configuration", h.Put)
}

// Get handles GET /api/wikis/{code}/configuration.
func (h *ConfigurationHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	config, err := h.service.Get(code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "No configuration for wiki"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get configuration", zap.String("wiki", code), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get configuration"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, config); err != nil {
		h.logger.Error("Failed to write configuration response", zap.Error(err))
	}
}

// Put handles PUT /api/wikis/{code}/configuration. The wiki code in the
// path wins over any code in the body.
func (h *ConfigurationHandler) Put(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var config models.WikiConfiguration
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	config.WikiCode = code

	if err := h.service.Save(config); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnknownCheck),
			errors.Is(err, apperrors.ErrUnknownModel),
			errors.Is(err, apperrors.ErrInvalidThreshold):
			if err := ErrorResponse(w, http.StatusUnprocessableEntity, "invalid_configuration", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to save configuration", zap.String("wiki", code), zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to save configuration"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, config); err != nil {
		h.logger.Error("Failed to write configuration response", zap.Error(err))
	}
}
