package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/services"
)

// CheckInfo describes one registered check.
type CheckInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Priority       int    `json:"priority"`
	DefaultEnabled bool   `json:"default_enabled"`
}

// ChecksHandler exposes the check registry.
type ChecksHandler struct {
	service services.ReviewService
	logger  *zap.Logger
}

// NewChecksHandler creates a new ChecksHandler.
func NewChecksHandler(service services.ReviewService, logger *zap.Logger) *ChecksHandler {
	return &ChecksHandler{service: service, logger: logger}
}

// RegisterRoutes registers the checks routes on the given mux.
func (h *ChecksHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/checks", h.List)
}

// List handles GET /api/checks and returns every registered check in
// priority order.
func (h *ChecksHandler) List(w http.ResponseWriter, r *http.Request) {
	regs := h.service.Checks()

	checks := make([]CheckInfo, 0, len(regs))
	for _, reg := range regs {
		checks = append(checks, CheckInfo{
			ID:             reg.Check.ID(),
			Title:          reg.Check.Title(),
			Priority:       reg.Priority,
			DefaultEnabled: reg.DefaultEnabled,
		})
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"checks": checks}); err != nil {
		h.logger.Error("Failed to write checks response", zap.Error(err))
	}
}
