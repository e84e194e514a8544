package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// renderErrorsCheck blocks edits that introduce new elements with the
// "error" class into the rendered page, which MediaWiki uses to mark
// failed template and parser function expansions.
type renderErrorsCheck struct{}

func (c *renderErrorsCheck) ID() string         { return "new-render-errors" }
func (c *renderErrorsCheck) Title() string      { return "New render errors" }
func (c *renderErrorsCheck) FailMode() FailMode { return FailOpen }

func (c *renderErrorsCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	noNewErrors := result(c, StatusOK, "The edit does not introduce new rendering errors.")

	if rc.Revision.ParentID == 0 {
		return noNewErrors
	}

	currentHTML := rc.CurrentHTML(ctx)
	parentHTML := rc.ParentHTML(ctx)
	if currentHTML == "" || parentHTML == "" {
		return noNewErrors
	}

	currentCount, err := wikitext.CountRenderErrors(currentHTML)
	if err != nil {
		rc.Deps.Logger.Warn("failed to parse rendered html",
			zap.Int64("rev_id", rc.Revision.RevID), zap.Error(err))
		return noNewErrors
	}
	parentCount, err := wikitext.CountRenderErrors(parentHTML)
	if err != nil {
		rc.Deps.Logger.Warn("failed to parse parent html",
			zap.Int64("rev_id", rc.Revision.ParentID), zap.Error(err))
		return noNewErrors
	}

	if currentCount > parentCount {
		return terminal(c, StatusFail,
			"The edit introduces new rendering errors.",
			blockedDecision("The edit introduces new rendering errors."))
	}
	return noNewErrors
}
