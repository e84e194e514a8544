package review

import "context"

// botUserCheck approves edits made by bots and former bots; their edits
// go through their own approval processes.
type botUserCheck struct{}

func (c *botUserCheck) ID() string         { return "bot-user" }
func (c *botUserCheck) Title() string      { return "Bot user" }
func (c *botUserCheck) FailMode() FailMode { return FailOpen }

func (c *botUserCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	isBot := rc.Revision.IsBotEdit()
	if !isBot && rc.Profile != nil && (rc.Profile.IsBot || rc.Profile.IsFormerBot) {
		isBot = true
	}

	if isBot {
		return terminal(c, StatusOK,
			"The edit could be auto-approved because the user is a bot.",
			approveDecision("The user is recognized as a bot."))
	}
	return result(c, StatusNotOK, "The user is not marked as a bot.")
}
