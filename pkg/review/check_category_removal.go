package review

import (
	"context"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// categoryRemovalCheck blocks edits that strip every category from a
// page. Redirect conversions legitimately drop categories and are
// handled by their own gate.
type categoryRemovalCheck struct{}

func (c *categoryRemovalCheck) ID() string         { return "all-categories-removed" }
func (c *categoryRemovalCheck) Title() string      { return "All categories removed" }
func (c *categoryRemovalCheck) FailMode() FailMode { return FailClosed }

func (c *categoryRemovalCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	if rc.Revision.ParentID == 0 {
		return result(c, StatusOK, "New page; no categories to remove.")
	}

	parent := rc.ParentWikitext(ctx)
	if parent == "" {
		return result(c, StatusOK, "Parent wikitext unavailable for category comparison.")
	}

	aliases := rc.Config.CategoryAliases
	parentCount := wikitext.CountCategoryLinks(parent, aliases)
	if parentCount == 0 {
		return result(c, StatusOK, "The previous version has no categories.")
	}

	current := rc.CurrentWikitext(ctx)
	if wikitext.CountCategoryLinks(current, aliases) > 0 {
		return result(c, StatusOK, "The edit keeps at least one category.")
	}
	if wikitext.IsRedirect(current, rc.RedirectAliases) {
		return result(c, StatusOK, "Redirect conversion; category removal handled separately.")
	}

	return terminal(c, StatusFail,
		"The edit removes all categories from the page.",
		blockedDecision("The edit removes all categories from the page."))
}
