// Package clients provides HTTP clients for the Wikimedia APIs the
// review engine depends on: the MediaWiki action API, the Lift Wing
// inference service and the legacy ORES scoring service.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

// DefaultTimeout bounds every outbound API call.
const DefaultTimeout = 10 * time.Second

// UserAgent identifies the bot to Wikimedia APIs per their policy.
const UserAgent = "PendingChangesBot/1.0 (https://github.com/Wikimedia-Suomi/PendingChangesBot-ng)"

const defaultLiftWingBaseURL = "https://api.wikimedia.org/service/lw/inference/v1/models"

// liftWingModel describes one Lift Wing model endpoint and which
// probability field carries the risk score.
type liftWingModel struct {
	endpoint       string
	probabilityKey string
	description    string
}

var liftWingModels = map[string]liftWingModel{
	"revertrisk": {
		endpoint:       "revertrisk-language-agnostic:predict",
		probabilityKey: "true",
		description:    "Language-agnostic revert risk prediction",
	},
	models.ModelRevertRiskLanguageAgnostic: {
		endpoint:       "revertrisk-language-agnostic:predict",
		probabilityKey: "true",
		description:    "Language-agnostic revert risk prediction",
	},
	models.ModelRevertRiskMultilingual: {
		endpoint:       "revertrisk-multilingual:predict",
		probabilityKey: "true",
		description:    "Multilingual revert risk prediction",
	},
	models.ModelDamaging: {
		endpoint:       "damaging:predict",
		probabilityKey: "true",
		description:    "Damaging edit detection",
	},
	models.ModelGoodfaith: {
		endpoint: "goodfaith:predict",
		// Inverted: the probability of "false" is the bad-faith risk.
		probabilityKey: "false",
		description:    "Good faith prediction",
	},
	models.ModelArticleQuality: {
		endpoint:       "articlequality:predict",
		probabilityKey: "stub",
		description:    "Article quality assessment",
	},
}

// ModelDescription returns the human-readable name for a model type,
// falling back to the raw type for unknown models.
func ModelDescription(modelType string) string {
	if model, ok := liftWingModels[modelType]; ok {
		return model.description
	}
	return modelType
}

// LiftWing calls the Wikimedia Lift Wing inference API.
type LiftWing struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewLiftWing creates a Lift Wing client. An empty baseURL selects the
// production endpoint.
func NewLiftWing(baseURL string, logger *zap.Logger) *LiftWing {
	if baseURL == "" {
		baseURL = defaultLiftWingBaseURL
	}
	return &LiftWing{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		logger:     logger.Named("liftwing"),
	}
}

// FetchScore requests a model prediction for a revision and returns the
// score in [0,1]. For the goodfaith model the returned score is the
// bad-faith probability so that higher always means riskier.
func (c *LiftWing) FetchScore(ctx context.Context, revID int64, lang, project, modelType string) (float64, error) {
	model, ok := liftWingModels[modelType]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrUnknownModel, modelType)
	}

	payload, err := json.Marshal(map[string]any{
		"rev_id":  revID,
		"lang":    lang,
		"project": project,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.baseURL + "/" + model.endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Lift Wing returned non-OK status",
			zap.String("model", modelType),
			zap.Int64("rev_id", revID),
			zap.Int("status", resp.StatusCode))
		return 0, fmt.Errorf("%w: lift wing returned status %d", apperrors.ErrDependencyUnavailable, resp.StatusCode)
	}

	var response struct {
		Output struct {
			Probabilities map[string]float64 `json:"probabilities"`
		} `json:"output"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	score, ok := response.Output.Probabilities[model.probabilityKey]
	if !ok {
		return 0, fmt.Errorf("%w: response missing %q probability", apperrors.ErrDependencyUnavailable, model.probabilityKey)
	}
	return score, nil
}
