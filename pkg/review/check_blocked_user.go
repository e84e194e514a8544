package review

import (
	"context"

	"go.uber.org/zap"
)

// blockedUserCheck blocks edits whose author was blocked on the wiki
// after making the edit. Fail-closed: when the block log cannot be
// read, the edit is not auto-approved.
type blockedUserCheck struct{}

func (c *blockedUserCheck) ID() string         { return "blocked-user" }
func (c *blockedUserCheck) Title() string      { return "User block status" }
func (c *blockedUserCheck) FailMode() FailMode { return FailClosed }

func (c *blockedUserCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	blocked, err := rc.UserBlockedAfter(ctx, rc.Revision.UserName, rc.Revision.Timestamp)
	if err != nil {
		rc.Deps.Logger.Error("failed to check block log",
			zap.String("user", rc.Revision.UserName),
			zap.Error(err))
		return terminal(c, StatusFail,
			"Could not verify user block status.",
			blockedDecision("Unable to verify the user was not blocked."))
	}

	if blocked {
		return terminal(c, StatusFail,
			"User was blocked after making this edit.",
			blockedDecision("User was blocked after making this edit."))
	}
	return result(c, StatusOK, "User has not been blocked since making this edit.")
}
