package review

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// autoApprovedGroupCheck approves edits by members of the configured
// auto-approved groups, or by editors with default autoreview rights
// when no allow-list is configured.
type autoApprovedGroupCheck struct{}

func (c *autoApprovedGroupCheck) ID() string         { return "auto-approved-group" }
func (c *autoApprovedGroupCheck) Title() string      { return "Auto-approved groups" }
func (c *autoApprovedGroupCheck) FailMode() FailMode { return FailOpen }

func (c *autoApprovedGroupCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	if len(rc.AutoGroups) > 0 {
		matched := c.matchedGroups(rc)
		if len(matched) > 0 {
			sort.Strings(matched)
			return terminal(c, StatusOK,
				fmt.Sprintf("The user belongs to groups: %s.", strings.Join(matched, ", ")),
				approveDecision("The user belongs to groups that are auto-approved."))
		}
		return result(c, StatusNotOK, "The user does not belong to auto-approved groups.")
	}

	if rc.Profile != nil && rc.Profile.IsAutoreviewed {
		return terminal(c, StatusOK,
			"The user has default auto-approval rights: Autoreviewed.",
			approveDecision("The user has autoreview rights that allow auto-approval."))
	}

	if rc.Profile != nil && rc.Profile.IsAutopatrolled {
		return result(c, StatusNotOK, "The user does not have autoreview rights.")
	}
	return result(c, StatusNotOK, "The user does not have default auto-approval rights.")
}

func (c *autoApprovedGroupCheck) matchedGroups(rc *Context) []string {
	groups := rc.Revision.RecordedUserGroups()
	if rc.Profile != nil {
		groups = append(groups, rc.Profile.UserGroups...)
	}

	seen := make(map[string]bool)
	var matched []string
	for _, group := range groups {
		name, ok := rc.AutoGroups[strings.ToLower(group)]
		if ok && !seen[name] {
			seen[name] = true
			matched = append(matched, name)
		}
	}
	return matched
}
