package review

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// oresScoresCheck thresholds the legacy ORES damaging and goodfaith
// probabilities. Goodfaith is inverted: a score below the threshold
// means likely bad faith.
type oresScoresCheck struct{}

func (c *oresScoresCheck) ID() string         { return "ores-scores" }
func (c *oresScoresCheck) Title() string      { return "ORES edit quality scores" }
func (c *oresScoresCheck) FailMode() FailMode { return FailOpen }

func (c *oresScoresCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	damagingThreshold := rc.Config.ORESDamagingThreshold
	goodfaithThreshold := rc.Config.ORESGoodfaithThreshold

	checkDamaging := damagingThreshold > 0
	checkGoodfaith := goodfaithThreshold > 0
	if !checkDamaging && !checkGoodfaith {
		return result(c, StatusSkip, "ORES checks are disabled (thresholds set to 0).")
	}

	scores, err := rc.ORESScores(ctx, checkDamaging, checkGoodfaith)
	if err != nil || (scores.Damaging == nil && scores.Goodfaith == nil) {
		rc.Deps.Logger.Warn("could not fetch ORES scores",
			zap.Int64("rev_id", rc.Revision.RevID), zap.Error(err))
		return result(c, StatusNotOK, "Could not verify ORES edit quality scores.")
	}

	if checkDamaging && scores.Damaging != nil && *scores.Damaging > damagingThreshold {
		return terminal(c, StatusFail,
			fmt.Sprintf("ORES damaging score (%.3f) exceeds threshold (%.3f).",
				*scores.Damaging, damagingThreshold),
			blockedDecision("ORES edit quality scores indicate potential issues."))
	}
	if checkGoodfaith && scores.Goodfaith != nil && *scores.Goodfaith < goodfaithThreshold {
		return terminal(c, StatusFail,
			fmt.Sprintf("ORES goodfaith score (%.3f) is below threshold (%.3f).",
				*scores.Goodfaith, goodfaithThreshold),
			blockedDecision("ORES edit quality scores indicate potential issues."))
	}

	var parts []string
	if checkDamaging && scores.Damaging != nil {
		parts = append(parts, fmt.Sprintf("damaging: %.3f", *scores.Damaging))
	}
	if checkGoodfaith && scores.Goodfaith != nil {
		parts = append(parts, fmt.Sprintf("goodfaith: %.3f", *scores.Goodfaith))
	}
	return result(c, StatusOK,
		fmt.Sprintf("ORES scores are within acceptable thresholds (%s).", strings.Join(parts, ", ")))
}
