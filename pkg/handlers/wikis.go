package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/stores"
)

// WikisHandler registers and lists the wikis the engine reviews.
type WikisHandler struct {
	wikis  *stores.WikiStore
	logger *zap.Logger
}

// NewWikisHandler creates a new WikisHandler.
func NewWikisHandler(wikis *stores.WikiStore, logger *zap.Logger) *WikisHandler {
	return &WikisHandler{wikis: wikis, logger: logger}
}

// RegisterRoutes registers the wiki routes on the given mux.
func (h *WikisHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/wikis", h.List)
	mux.HandleFunc("PUT /api/wikis/{code}", h.Put)
}

// List handles GET /api/wikis.
func (h *WikisHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, map[string]any{"wikis": h.wikis.List()}); err != nil {
		h.logger.Error("Failed to write wikis response", zap.Error(err))
	}
}

// Put handles PUT /api/wikis/{code}. The code in the path wins over any
// code in the body.
func (h *WikisHandler) Put(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var wiki models.Wiki
	if err := json.NewDecoder(r.Body).Decode(&wiki); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	wiki.Code = code
	if wiki.Family == "" {
		wiki.Family = "wikipedia"
	}

	h.wikis.Upsert(wiki)
	if err := WriteJSON(w, http.StatusOK, wiki); err != nil {
		h.logger.Error("Failed to write wiki response", zap.Error(err))
	}
}
