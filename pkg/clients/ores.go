package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
)

const defaultORESBaseURL = "https://ores.wikimedia.org/v3/scores"

// ORESScores holds the probabilities returned for one revision. A nil
// field means the model was not requested or not returned.
type ORESScores struct {
	Damaging  *float64
	Goodfaith *float64
}

// ORES calls the legacy ORES scoring service, still used by wikis whose
// damaging/goodfaith models have not moved to Lift Wing.
type ORES struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewORES creates an ORES client. An empty baseURL selects the
// production endpoint.
func NewORES(baseURL string, logger *zap.Logger) *ORES {
	if baseURL == "" {
		baseURL = defaultORESBaseURL
	}
	return &ORES{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		logger:     logger.Named("ores"),
	}
}

// oresWikiID builds the ORES database name, e.g. fi + wikipedia -> fiwiki.
func oresWikiID(code, family string) string {
	if len(family) > 4 {
		family = family[:4]
	}
	return code + family
}

// FetchScores requests damaging and/or goodfaith probabilities for a
// revision in a single batched call.
func (c *ORES) FetchScores(ctx context.Context, code, family string, revID int64, damaging, goodfaith bool) (ORESScores, error) {
	var requested []string
	if damaging {
		requested = append(requested, "damaging")
	}
	if goodfaith {
		requested = append(requested, "goodfaith")
	}
	if len(requested) == 0 {
		return ORESScores{}, nil
	}

	wikiID := oresWikiID(code, family)
	endpoint := fmt.Sprintf("%s/%s/%d?models=%s", c.baseURL, wikiID, revID, strings.Join(requested, "|"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ORESScores{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ORESScores{}, fmt.Errorf("%w: %v", apperrors.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ORESScores{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("ORES returned non-OK status",
			zap.String("wiki", wikiID),
			zap.Int64("rev_id", revID),
			zap.Int("status", resp.StatusCode))
		return ORESScores{}, fmt.Errorf("%w: ores returned status %d", apperrors.ErrDependencyUnavailable, resp.StatusCode)
	}

	type modelScore struct {
		Score struct {
			Probability map[string]float64 `json:"probability"`
		} `json:"score"`
	}
	var response map[string]struct {
		Scores map[string]map[string]modelScore `json:"scores"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return ORESScores{}, fmt.Errorf("failed to parse response: %w", err)
	}

	revScores := response[wikiID].Scores[strconv.FormatInt(revID, 10)]

	var scores ORESScores
	if damaging {
		if prob, ok := revScores["damaging"].Score.Probability["true"]; ok {
			scores.Damaging = &prob
		}
	}
	if goodfaith {
		if prob, ok := revScores["goodfaith"].Score.Probability["true"]; ok {
			scores.Goodfaith = &prob
		}
	}
	return scores, nil
}
