package review

import (
	"context"
	"fmt"
	"sort"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

// FailMode is the documented behavior of a check when it errors or
// panics: fail-open checks never block on failure, fail-closed checks
// treat failure as disqualifying.
type FailMode int

const (
	FailOpen FailMode = iota
	FailClosed
)

// Check is one review rule. Implementations are stateless; all inputs
// come from the evaluation context.
type Check interface {
	ID() string
	Title() string
	FailMode() FailMode
	Evaluate(ctx context.Context, rc *Context) CheckResult
}

// Registration describes a check in the static registry.
type Registration struct {
	Check          Check
	Priority       int
	DefaultEnabled bool
}

var registry = []Registration{
	{Check: &brokenWikicodeCheck{}, Priority: 0, DefaultEnabled: true},
	{Check: &manualUnapprovalCheck{}, Priority: 1, DefaultEnabled: true},
	{Check: &botUserCheck{}, Priority: 2, DefaultEnabled: true},
	{Check: &blockedUserCheck{}, Priority: 3, DefaultEnabled: true},
	{Check: &autoApprovedGroupCheck{}, Priority: 4, DefaultEnabled: true},
	{Check: &articleToRedirectCheck{}, Priority: 5, DefaultEnabled: true},
	{Check: &autopatrolCheck{}, Priority: 6, DefaultEnabled: true},
	{Check: &blockingCategoriesCheck{}, Priority: 7, DefaultEnabled: true},
	{Check: &renderErrorsCheck{}, Priority: 8, DefaultEnabled: true},
	{Check: &invalidISBNCheck{}, Priority: 9, DefaultEnabled: true},
	{Check: &referenceOnlyEditCheck{}, Priority: 10, DefaultEnabled: true},
	{Check: &revertDetectionCheck{}, Priority: 11, DefaultEnabled: true},
	{Check: &supersededAdditionsCheck{}, Priority: 12, DefaultEnabled: true},
	{Check: &categoryRemovalCheck{}, Priority: 13, DefaultEnabled: true},
	{Check: &oresScoresCheck{}, Priority: 14, DefaultEnabled: true},
	{Check: &mlScoresCheck{}, Priority: 15, DefaultEnabled: true},
}

// Registry returns all registrations sorted by priority. The slice is a
// copy; callers may not mutate registered checks.
func Registry() []Registration {
	regs := make([]Registration, len(registry))
	copy(regs, registry)
	sort.Slice(regs, func(i, j int) bool { return regs[i].Priority < regs[j].Priority })
	return regs
}

// AllChecks returns every registered check in default order.
func AllChecks() []Check {
	regs := Registry()
	checks := make([]Check, 0, len(regs))
	for _, reg := range regs {
		checks = append(checks, reg.Check)
	}
	return checks
}

// CheckByID returns the registered check with the given id.
func CheckByID(id string) (Check, bool) {
	for _, reg := range registry {
		if reg.Check.ID() == id {
			return reg.Check, true
		}
	}
	return nil, false
}

// EnabledChecks resolves a configuration's enabled check ids into
// checks in the configured order. An empty list enables every check in
// default order. Unknown ids are a configuration error.
func EnabledChecks(config models.WikiConfiguration) ([]Check, error) {
	if len(config.EnabledChecks) == 0 {
		return AllChecks(), nil
	}

	checks := make([]Check, 0, len(config.EnabledChecks))
	for _, id := range config.EnabledChecks {
		check, ok := CheckByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownCheck, id)
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func result(c Check, status CheckStatus, message string) CheckResult {
	return CheckResult{ID: c.ID(), Title: c.Title(), Status: status, Message: message}
}

func terminal(c Check, status CheckStatus, message string, decision *Decision) CheckResult {
	return CheckResult{
		ID:         c.ID(),
		Title:      c.Title(),
		Status:     status,
		Message:    message,
		Decision:   decision,
		ShouldStop: true,
	}
}
