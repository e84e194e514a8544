package review

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// referenceOnlyEditCheck fast-tracks edits that only add or modify
// references. References pointing at domains never cited on the wiki
// before are sent to manual review instead.
type referenceOnlyEditCheck struct{}

func (c *referenceOnlyEditCheck) ID() string         { return "reference-only-edit" }
func (c *referenceOnlyEditCheck) Title() string      { return "Reference-only edit detection" }
func (c *referenceOnlyEditCheck) FailMode() FailMode { return FailClosed }

func (c *referenceOnlyEditCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	pending := rc.CurrentWikitext(ctx)
	parent := rc.ParentWikitext(ctx)

	if !wikitext.IsReferenceOnlyEdit(parent, pending) {
		return result(c, StatusSkip, "Edit modifies content beyond references.")
	}

	parentRefs := make(map[string]bool)
	for _, ref := range wikitext.ExtractReferences(parent) {
		parentRefs[ref] = true
	}
	var newRefs []string
	for _, ref := range wikitext.ExtractReferences(pending) {
		if !parentRefs[ref] {
			newRefs = append(newRefs, ref)
		}
	}
	if len(newRefs) == 0 {
		return result(c, StatusSkip, "No new or modified references detected.")
	}

	urls := wikitext.ExtractURLsFromReferences(newRefs)
	if len(urls) == 0 {
		return terminal(c, StatusOK,
			fmt.Sprintf("Edit only modifies references (%d reference(s) added/modified).", len(newRefs)),
			approveDecision("Edit only adds or modifies references without external URLs."))
	}

	checked := make(map[string]bool)
	var newDomains []string
	for _, rawURL := range urls {
		domain := wikitext.DomainFromURL(rawURL)
		if domain == "" || checked[domain] {
			continue
		}
		checked[domain] = true

		used, err := rc.DomainPreviouslyUsed(ctx, domain)
		if err != nil {
			rc.Deps.Logger.Warn("failed to check domain usage",
				zap.String("domain", domain), zap.Error(err))
			used = false
		}
		if !used {
			newDomains = append(newDomains, domain)
		}
	}

	if len(newDomains) > 0 {
		list := strings.Join(newDomains[:min(len(newDomains), 3)], ", ")
		if len(newDomains) > 3 {
			list += "..."
		}
		return terminal(c, StatusNotOK,
			fmt.Sprintf("Edit adds references with new domain(s): %s", list),
			manualDecision(fmt.Sprintf("Reference-only edit contains %d unverified domain(s).", len(newDomains))))
	}

	return terminal(c, StatusOK,
		fmt.Sprintf("Edit only modifies references (%d reference(s) with %d known domain(s)).",
			len(newRefs), len(checked)),
		approveDecision("Edit only adds or modifies references with known domains."))
}
