package review

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// revertTags are the change tags MediaWiki applies to revert edits.
var revertTags = map[string]bool{
	"mw-manual-revert": true,
	"mw-reverted":      true,
	"mw-rollback":      true,
	"mw-undo":          true,
}

// revertDetectionCheck approves reverts that restore previously
// reviewed content, identified by content hash. A revert whose target
// was never reviewed is blocked: the revert itself proves nothing.
type revertDetectionCheck struct{}

func (c *revertDetectionCheck) ID() string         { return "revert-detection" }
func (c *revertDetectionCheck) Title() string      { return "Revert detection" }
func (c *revertDetectionCheck) FailMode() FailMode { return FailClosed }

func (c *revertDetectionCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	if !c.hasRevertTag(rc.Revision.ChangeTags) {
		return result(c, StatusSkip, "No revert tags found.")
	}

	revertedIDs := c.parseRevertedIDs(rc)
	if len(revertedIDs) == 0 {
		return result(c, StatusSkip, "No reverted revision IDs found in change tags.")
	}

	reviewed, err := rc.ReviewedByContentHash(ctx, revertedIDs)
	if err != nil {
		rc.Deps.Logger.Error("failed to query reviewed revisions",
			zap.Int64("rev_id", rc.Revision.RevID), zap.Error(err))
		return terminal(c, StatusFail,
			"Could not verify review history for the reverted revisions.",
			blockedDecision("Unable to verify the revert restores reviewed content."))
	}

	if len(reviewed) > 0 {
		return terminal(c, StatusOK,
			fmt.Sprintf("Revert to previously reviewed content (SHA1: %s).", reviewed[0].SHA1),
			approveDecision("The revert restores previously reviewed content."))
	}

	return terminal(c, StatusFail,
		"Revert detected but no previously reviewed content found.",
		blockedDecision("The revert does not restore previously reviewed content."))
}

func (c *revertDetectionCheck) hasRevertTag(tags []string) bool {
	for _, tag := range tags {
		if revertTags[tag] {
			return true
		}
	}
	return false
}

// parseRevertedIDs extracts reverted revision ids from the structured
// change tag parameters. Malformed parameter strings are logged and
// skipped.
func (c *revertDetectionCheck) parseRevertedIDs(rc *Context) []int64 {
	seen := make(map[int64]bool)
	for _, raw := range rc.Revision.ChangeTagParams {
		var params struct {
			OldestRevertedRevID *int64 `json:"oldestRevertedRevId"`
			NewestRevertedRevID *int64 `json:"newestRevertedRevId"`
			OriginalRevisionID  *int64 `json:"originalRevisionId"`
		}
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			rc.Deps.Logger.Warn("failed to parse change tag params",
				zap.Int64("rev_id", rc.Revision.RevID),
				zap.String("params", raw),
				zap.Error(err))
			continue
		}
		for _, id := range []*int64{params.OldestRevertedRevID, params.NewestRevertedRevID, params.OriginalRevisionID} {
			if id != nil {
				seen[*id] = true
			}
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
