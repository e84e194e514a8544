package review

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// blockingCategoriesCheck blocks edits to pages whose previous version
// belongs to a configured blocking category, e.g. biographies of living
// people.
type blockingCategoriesCheck struct{}

func (c *blockingCategoriesCheck) ID() string         { return "blocking-categories" }
func (c *blockingCategoriesCheck) Title() string      { return "Blocking categories" }
func (c *blockingCategoriesCheck) FailMode() FailMode { return FailClosed }

func (c *blockingCategoriesCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	categories := make([]string, 0, len(rc.Revision.Categories)+len(rc.Page.Categories))
	categories = append(categories, rc.Revision.Categories...)
	categories = append(categories, rc.Page.Categories...)

	hits := wikitext.BlockingCategoryHits(categories, rc.BlockingCategories)
	if len(hits) > 0 {
		sort.Strings(hits)
		return terminal(c, StatusFail,
			fmt.Sprintf("The previous version belongs to blocking categories: %s.", strings.Join(hits, ", ")),
			blockedDecision("The previous version belongs to blocking categories."))
	}
	return result(c, StatusOK, "The previous version is not in blocking categories.")
}
