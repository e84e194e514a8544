package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/review"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/services"
)

// EvaluationResponse is the body returned for one evaluated page.
type EvaluationResponse struct {
	RunID     string                  `json:"run_id"`
	WikiCode  string                  `json:"wiki_code"`
	PageID    int64                   `json:"pageid"`
	Title     string                  `json:"title"`
	Revisions []review.RevisionResult `json:"revisions"`
}

// EvaluationHandler runs the review engine over a page's pending
// revisions.
type EvaluationHandler struct {
	service services.ReviewService
	timeout time.Duration
	logger  *zap.Logger
}

// NewEvaluationHandler creates a new EvaluationHandler. The timeout
// bounds one page evaluation.
func NewEvaluationHandler(service services.ReviewService, timeout time.Duration, logger *zap.Logger) *EvaluationHandler {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &EvaluationHandler{service: service, timeout: timeout, logger: logger}
}

// RegisterRoutes registers the evaluation routes on the given mux.
func (h *EvaluationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/wikis/{code}/pages/{pageid}/evaluate", h.Evaluate)
}

// Evaluate handles POST /api/wikis/{code}/pages/{pageid}/evaluate.
// Check failures never produce an error body; every pending revision
// gets a decision. Only unknown wikis, pages, or configurations 4xx.
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	pageID, err := strconv.ParseInt(r.PathValue("pageid"), 10, 64)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_page_id", "Invalid page ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.service.EvaluatePage(ctx, code, pageID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrUnknownCheck):
			if err := ErrorResponse(w, http.StatusUnprocessableEntity, "unknown_check", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Page evaluation failed",
				zap.String("wiki", code), zap.Int64("pageid", pageID), zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Page evaluation failed"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	response := EvaluationResponse{
		RunID:     result.RunID,
		WikiCode:  result.WikiCode,
		PageID:    result.PageID,
		Title:     result.Title,
		Revisions: result.Revisions,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write evaluation response", zap.Error(err))
	}
}
