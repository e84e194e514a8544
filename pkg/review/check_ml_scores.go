package review

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/cache"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/clients"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/mlcompat"
)

// mlScoresCheck thresholds the configured Lift Wing model score for the
// revision. Scores go through the shared score cache so re-evaluations
// of the same revision do not hit the API again. A fetch failure does
// not block; the pipeline continues to later checks.
type mlScoresCheck struct{}

func (c *mlScoresCheck) ID() string         { return "ml-scores" }
func (c *mlScoresCheck) Title() string      { return "Lift Wing ML model scores" }
func (c *mlScoresCheck) FailMode() FailMode { return FailOpen }

func (c *mlScoresCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	modelType := rc.Config.MLModelType
	threshold := rc.Config.MLModelThreshold

	if threshold <= 0 {
		return result(c, StatusSkip, "Lift Wing ML checks are disabled (threshold set to 0).")
	}

	lang := rc.Wiki.Code
	if !mlcompat.IsCompatible(modelType, lang) {
		return result(c, StatusSkip,
			fmt.Sprintf("Model incompatible: %s", mlcompat.IncompatibilityReason(modelType, lang)))
	}

	key := cache.Key(strconv.FormatInt(rc.Revision.RevID, 10), modelType)
	score, err := rc.Deps.ScoreCache.GetOrFetch(ctx, key, func(fctx context.Context) (float64, error) {
		return rc.Deps.Scores.FetchScore(fctx, rc.Revision.RevID, lang, rc.Wiki.Family, modelType)
	})
	if err != nil {
		rc.Deps.Logger.Warn("could not fetch Lift Wing score",
			zap.Int64("rev_id", rc.Revision.RevID),
			zap.String("model", modelType),
			zap.Error(err))
		return result(c, StatusNotOK,
			fmt.Sprintf("Could not fetch %s score from Lift Wing API.", modelType))
	}

	display := clients.ModelDescription(modelType)
	if score > threshold {
		return terminal(c, StatusFail,
			fmt.Sprintf("%s score (%.3f) exceeds threshold (%.3f).", modelType, score, threshold),
			blockedDecision(fmt.Sprintf("High %s score from Lift Wing ML indicates potential issues.", modelType)))
	}
	return result(c, StatusOK,
		fmt.Sprintf("%s score (%.3f) is within acceptable threshold (%.3f) [%s].",
			modelType, score, threshold, display))
}
