package review

import (
	"context"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// brokenWikicodeCheck flags revisions whose rendered output leaks more
// wikitext fragments than the parent's did. It runs before everything
// else so obviously broken edits never reach an approval shortcut.
type brokenWikicodeCheck struct{}

func (c *brokenWikicodeCheck) ID() string         { return "broken-wikicode" }
func (c *brokenWikicodeCheck) Title() string      { return "Broken wikicode indicators" }
func (c *brokenWikicodeCheck) FailMode() FailMode { return FailOpen }

func (c *brokenWikicodeCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	currentHTML := rc.CurrentHTML(ctx)
	if currentHTML == "" {
		return result(c, StatusOK, "Could not fetch rendered HTML for analysis.")
	}

	lang := rc.Wiki.Code
	current := wikitext.DetectBrokenMarkupIndicators(currentHTML, lang)

	parent := map[string]int{}
	if rc.Revision.ParentID != 0 {
		if parentHTML := rc.ParentHTML(ctx); parentHTML != "" {
			parent = wikitext.DetectBrokenMarkupIndicators(parentHTML, lang)
		}
	}

	broken, details := wikitext.EvaluateBrokenMarkup(wikitext.NewIndicators(current, parent))
	if !broken {
		return result(c, StatusOK, "No broken wikicode indicators detected.")
	}

	if rc.Config.BrokenMarkupBlocks {
		return terminal(c, StatusFail, details, blockedDecision(details))
	}
	return result(c, StatusNotOK, details)
}
