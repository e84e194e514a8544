package review

import (
	"context"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// articleToRedirectCheck blocks edits that turn a regular article into
// a redirect. Such conversions require autoreview rights, which the
// earlier group check would already have honored; autopatrol alone is
// not enough, which is why this gate runs before the autopatrol
// shortcut.
type articleToRedirectCheck struct{}

func (c *articleToRedirectCheck) ID() string         { return "article-to-redirect-conversion" }
func (c *articleToRedirectCheck) Title() string      { return "Article-to-redirect conversion" }
func (c *articleToRedirectCheck) FailMode() FailMode { return FailOpen }

func (c *articleToRedirectCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	notConversion := result(c, StatusOK, "This is not an article-to-redirect conversion.")

	current := rc.CurrentWikitext(ctx)
	if !wikitext.IsRedirect(current, rc.RedirectAliases) {
		return notConversion
	}
	if rc.Revision.ParentID == 0 {
		return notConversion
	}

	parent := rc.ParentWikitext(ctx)
	if parent != "" && !wikitext.IsRedirect(parent, rc.RedirectAliases) {
		return terminal(c, StatusFail,
			"Converting articles to redirects requires autoreview rights.",
			blockedDecision("Article-to-redirect conversions require autoreview rights."))
	}
	return notConversion
}
