package review

import (
	"context"

	"go.uber.org/zap"
)

// manualUnapprovalCheck blocks revisions a human reviewer has explicitly
// un-approved. Automation must never override a reviewer's judgment.
type manualUnapprovalCheck struct{}

func (c *manualUnapprovalCheck) ID() string         { return "manual-unapproval" }
func (c *manualUnapprovalCheck) Title() string      { return "Manual un-approval check" }
func (c *manualUnapprovalCheck) FailMode() FailMode { return FailOpen }

func (c *manualUnapprovalCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	unapproved, err := rc.ManuallyUnapproved(ctx)
	if err != nil {
		rc.Deps.Logger.Warn("failed to check review log",
			zap.String("page", rc.Page.Title),
			zap.Int64("rev_id", rc.Revision.RevID),
			zap.Error(err))
		return result(c, StatusOK, "Could not check the review log; assuming no un-approval.")
	}

	if unapproved {
		return terminal(c, StatusFail,
			"This revision was manually un-approved by a human reviewer and should not be auto-approved.",
			blockedDecision("Revision was manually un-approved by a human reviewer."))
	}
	return result(c, StatusOK, "This revision has not been manually un-approved.")
}
