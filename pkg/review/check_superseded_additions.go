package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// significantBlockSize is the minimum length, in runes, of a common run
// that counts as surviving text when comparing an addition to the
// current stable article.
const significantBlockSize = 4

// supersededAdditionsCheck approves revisions whose added text has since
// been removed or rewritten by later edits: the contribution no longer
// affects the visible article, so fast-tracking it is safe.
type supersededAdditionsCheck struct{}

func (c *supersededAdditionsCheck) ID() string         { return "superseded-additions" }
func (c *supersededAdditionsCheck) Title() string      { return "Superseded additions" }
func (c *supersededAdditionsCheck) FailMode() FailMode { return FailOpen }

func (c *supersededAdditionsCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	threshold := rc.Config.SupersededSimilarityThreshold
	if threshold <= 0 {
		return result(c, StatusSkip, "Superseded-addition detection is disabled (threshold set to 0).")
	}

	if rc.Page.StableRevID == 0 || rc.Page.StableRevID == rc.Revision.RevID {
		return result(c, StatusNotOK, "No stable revision available for comparison.")
	}

	stableWikitext := c.stableWikitext(ctx, rc)
	if stableWikitext == "" {
		return result(c, StatusNotOK, "Stable revision wikitext is empty.")
	}

	pending := rc.CurrentWikitext(ctx)
	if pending == "" {
		return result(c, StatusNotOK, "Pending revision has no wikitext to compare.")
	}

	additions := wikitext.ExtractAdditions(rc.ParentWikitext(ctx), pending)
	if len(additions) == 0 {
		return result(c, StatusNotOK, "No additions detected in pending revision.")
	}

	normalizedStable := wikitext.Normalize(stableWikitext)
	if normalizedStable == "" {
		return result(c, StatusNotOK, "Unable to normalize latest stable wikitext.")
	}

	for _, addition := range additions {
		normalized := wikitext.Normalize(addition)
		if normalized == "" {
			continue
		}

		ratio := wikitext.SignificantMatchRatio(normalized, normalizedStable, significantBlockSize)
		if ratio < threshold {
			rc.Deps.Logger.Info("addition appears superseded",
				zap.Int64("rev_id", rc.Revision.RevID),
				zap.Float64("match_ratio", ratio),
				zap.Float64("threshold", threshold))
			return terminal(c, StatusOK,
				"Addition appears superseded: similarity below threshold.",
				approveDecision("Addition appears superseded: similarity below threshold."))
		}
	}

	return result(c, StatusNotOK, "Additions still present or insufficient similarity drop detected.")
}

func (c *supersededAdditionsCheck) stableWikitext(ctx context.Context, rc *Context) string {
	text, err := rc.Deps.TextCache.GetOrFetch(ctx, textCacheKey(rc.Page.StableRevID, "wikitext"),
		func(fctx context.Context) (string, error) {
			return rc.Deps.WikiAPI.RevisionWikitext(fctx, rc.Page.StableRevID)
		})
	if err != nil {
		rc.Deps.Logger.Warn("failed to fetch stable wikitext",
			zap.Int64("stable_rev_id", rc.Page.StableRevID), zap.Error(err))
		return ""
	}
	return text
}
