package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// invalidISBNCheck blocks edits that contain ISBN tokens with invalid
// checksums.
type invalidISBNCheck struct{}

func (c *invalidISBNCheck) ID() string         { return "invalid-isbn" }
func (c *invalidISBNCheck) Title() string      { return "ISBN checksum validation" }
func (c *invalidISBNCheck) FailMode() FailMode { return FailClosed }

func (c *invalidISBNCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	invalid := wikitext.FindInvalidISBNs(rc.CurrentWikitext(ctx))
	if len(invalid) > 0 {
		return terminal(c, StatusFail,
			fmt.Sprintf("The edit contains invalid ISBN(s): %s.", strings.Join(invalid, ", ")),
			blockedDecision("The edit contains ISBN(s) with invalid checksums."))
	}
	return result(c, StatusOK, "No invalid ISBNs detected.")
}
