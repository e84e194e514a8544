package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/config"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/review"
)

// mockReviewService implements services.ReviewService for handler testing.
type mockReviewService struct {
	result review.PageResult
	err    error
}

func (m *mockReviewService) EvaluatePage(_ context.Context, wikiCode string, pageID int64) (review.PageResult, error) {
	if m.err != nil {
		return review.PageResult{}, m.err
	}
	return m.result, nil
}

func (m *mockReviewService) EvaluatePages(_ context.Context, wikiCode string, pageIDs []int64) ([]review.PageResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []review.PageResult{m.result}, nil
}

func (m *mockReviewService) Checks() []review.Registration {
	return review.Registry()
}

// mockConfigurationService implements services.ConfigurationService.
type mockConfigurationService struct {
	config  models.WikiConfiguration
	getErr  error
	saveErr error
	saved   *models.WikiConfiguration
}

func (m *mockConfigurationService) Get(wikiCode string) (models.WikiConfiguration, error) {
	if m.getErr != nil {
		return models.WikiConfiguration{}, m.getErr
	}
	return m.config, nil
}

func (m *mockConfigurationService) Save(config models.WikiConfiguration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &config
	return nil
}

func (m *mockConfigurationService) EnsureRedirectAliases(ctx context.Context, wiki models.Wiki) []string {
	return []string{"#REDIRECT"}
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, ErrorResponse(rec, http.StatusNotFound, "wiki_not_found", "no such wiki"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "wiki_not_found", body.Error)
	assert.Equal(t, "no such wiki", body.Message)
}

func TestHealthHandler(t *testing.T) {
	cfg := &config.Config{Env: "test", Version: "1.2.3"}
	handler := NewHealthHandler(cfg, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("ping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp PingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, "pendingchangesbot", resp.Service)
	})
}

func TestChecksHandler(t *testing.T) {
	handler := NewChecksHandler(&mockReviewService{}, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Checks []CheckInfo `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Checks)
	assert.Equal(t, "broken-wikicode", resp.Checks[0].ID)
	assert.Equal(t, 0, resp.Checks[0].Priority)
	assert.True(t, resp.Checks[0].DefaultEnabled)
}

func TestEvaluationHandler(t *testing.T) {
	evaluate := func(service *mockReviewService, path string) *httptest.ResponseRecorder {
		handler := NewEvaluationHandler(service, time.Minute, zap.NewNop())
		mux := http.NewServeMux()
		handler.RegisterRoutes(mux)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		return rec
	}

	t.Run("returns per-revision decisions", func(t *testing.T) {
		service := &mockReviewService{result: review.PageResult{
			RunID:    "run-1",
			WikiCode: "fi",
			PageID:   7,
			Title:    "Example",
			Revisions: []review.RevisionResult{{
				RevID: 91,
				Decision: review.Decision{
					Status: review.DecisionApprove,
					Label:  "Would be auto-approved",
					Reason: "The user is recognized as a bot.",
				},
			}},
		}}

		rec := evaluate(service, "/api/wikis/fi/pages/7/evaluate")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp EvaluationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "run-1", resp.RunID)
		require.Len(t, resp.Revisions, 1)
		assert.Equal(t, review.DecisionApprove, resp.Revisions[0].Decision.Status)
	})

	t.Run("bad page id", func(t *testing.T) {
		rec := evaluate(&mockReviewService{}, "/api/wikis/fi/pages/abc/evaluate")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown wiki", func(t *testing.T) {
		service := &mockReviewService{err: fmt.Errorf("wiki %q: %w", "xx", apperrors.ErrNotFound)}

		rec := evaluate(service, "/api/wikis/xx/pages/7/evaluate")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad configuration", func(t *testing.T) {
		service := &mockReviewService{err: fmt.Errorf("%w: %q", apperrors.ErrUnknownCheck, "bogus")}

		rec := evaluate(service, "/api/wikis/fi/pages/7/evaluate")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestConfigurationHandler(t *testing.T) {
	newMux := func(service *mockConfigurationService) *http.ServeMux {
		handler := NewConfigurationHandler(service, zap.NewNop())
		mux := http.NewServeMux()
		handler.RegisterRoutes(mux)
		return mux
	}

	t.Run("get", func(t *testing.T) {
		service := &mockConfigurationService{config: models.WikiConfiguration{WikiCode: "fi", MLModelThreshold: 0.9}}
		rec := httptest.NewRecorder()
		newMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wikis/fi/configuration", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.WikiConfiguration
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 0.9, got.MLModelThreshold)
	})

	t.Run("get missing", func(t *testing.T) {
		service := &mockConfigurationService{getErr: apperrors.ErrNotFound}
		rec := httptest.NewRecorder()
		newMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wikis/fi/configuration", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("put overrides body wiki code from path", func(t *testing.T) {
		service := &mockConfigurationService{}
		body, _ := json.Marshal(models.WikiConfiguration{WikiCode: "en"})
		rec := httptest.NewRecorder()
		newMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/wikis/fi/configuration", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, service.saved)
		assert.Equal(t, "fi", service.saved.WikiCode)
	})

	t.Run("put invalid threshold", func(t *testing.T) {
		service := &mockConfigurationService{saveErr: apperrors.ErrInvalidThreshold}
		rec := httptest.NewRecorder()
		newMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/wikis/fi/configuration", bytes.NewReader([]byte(`{}`))))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("put malformed body", func(t *testing.T) {
		service := &mockConfigurationService{}
		rec := httptest.NewRecorder()
		newMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/wikis/fi/configuration", bytes.NewReader([]byte(`{`))))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
