package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/stores"
)

// PageIngestRequest is the body the ingestion collaborator posts for
// one pending page and its revisions.
type PageIngestRequest struct {
	Title        string                   `json:"title"`
	StableRevID  int64                    `json:"stable_revid"`
	PendingSince *time.Time               `json:"pending_since,omitempty"`
	Categories   []string                 `json:"categories,omitempty"`
	Revisions    []models.PendingRevision `json:"revisions"`
}

// IngestHandler accepts pending pages, revisions, and editor profiles
// from the ingestion collaborator.
type IngestHandler struct {
	revisions *stores.RevisionStore
	profiles  *stores.ProfileStore
	logger    *zap.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(revisions *stores.RevisionStore, profiles *stores.ProfileStore, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{revisions: revisions, profiles: profiles, logger: logger}
}

// RegisterRoutes registers the ingestion routes on the given mux.
func (h *IngestHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /api/wikis/{code}/pages/{pageid}", h.PutPage)
	mux.HandleFunc("PUT /api/wikis/{code}/editors/{username}", h.PutProfile)
}

// PutPage handles PUT /api/wikis/{code}/pages/{pageid}.
func (h *IngestHandler) PutPage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	pageID, err := strconv.ParseInt(r.PathValue("pageid"), 10, 64)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_page_id", "Invalid page ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req PageIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.revisions.SavePage(code, models.PendingPage{
		WikiCode:     code,
		PageID:       pageID,
		Title:        req.Title,
		StableRevID:  req.StableRevID,
		PendingSince: req.PendingSince,
		Categories:   req.Categories,
	})
	for _, rev := range req.Revisions {
		rev.PageID = pageID
		h.revisions.SaveRevision(code, rev)
	}

	h.logger.Info("Page ingested",
		zap.String("wiki", code),
		zap.Int64("pageid", pageID),
		zap.Int("revisions", len(req.Revisions)))
	w.WriteHeader(http.StatusNoContent)
}

// PutProfile handles PUT /api/wikis/{code}/editors/{username}.
func (h *IngestHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	username := r.PathValue("username")

	var profile models.EditorProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	profile.WikiCode = code
	profile.Username = username
	if profile.FetchedAt.IsZero() {
		profile.FetchedAt = time.Now()
	}

	h.profiles.Save(profile)
	w.WriteHeader(http.StatusNoContent)
}
