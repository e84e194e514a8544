package review

import "context"

// autopatrolCheck approves edits by autopatrolled editors. It is
// deliberately ordered after the redirect-conversion gate: autopatrol
// does not excuse converting an article to a redirect.
type autopatrolCheck struct{}

func (c *autopatrolCheck) ID() string         { return "autopatrol" }
func (c *autopatrolCheck) Title() string      { return "Autopatrolled user" }
func (c *autopatrolCheck) FailMode() FailMode { return FailOpen }

func (c *autopatrolCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	if rc.Profile != nil && rc.Profile.IsAutopatrolled {
		return terminal(c, StatusOK,
			"The user has autopatrol rights.",
			approveDecision("The user has autopatrol rights that allow auto-approval."))
	}
	return result(c, StatusNotOK, "The user does not have autopatrol rights.")
}
