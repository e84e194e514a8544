// Package review implements the pending-changes review engine: a
// registry of checks, the pipeline driver that runs them in configured
// order for one revision, the decision aggregator, and the page
// evaluator that walks a page's pending revisions oldest first.
package review

// CheckStatus is the per-check outcome.
type CheckStatus string

const (
	// StatusOK means the check passed or found nothing disqualifying.
	StatusOK CheckStatus = "ok"
	// StatusNotOK means the check found something, without being able
	// to decide on its own.
	StatusNotOK CheckStatus = "not_ok"
	// StatusSkip means the check did not apply or was disabled.
	StatusSkip CheckStatus = "skip"
	// StatusFail means the check found a disqualifying condition.
	StatusFail CheckStatus = "fail"
)

// DecisionStatus is the aggregated outcome for a revision. The set is
// closed; nothing else may appear in a Decision.
type DecisionStatus string

const (
	DecisionApprove DecisionStatus = "approve"
	DecisionBlocked DecisionStatus = "blocked"
	DecisionManual  DecisionStatus = "manual"
)

// Decision is the engine's canonical output for one revision.
type Decision struct {
	Status DecisionStatus `json:"status"`
	Label  string         `json:"label"`
	Reason string         `json:"reason"`
}

// CheckResult is produced once per check invocation and never mutated.
type CheckResult struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`

	// Decision carries the terminal outcome when ShouldStop is set.
	Decision   *Decision `json:"decision,omitempty"`
	ShouldStop bool      `json:"should_stop"`
}

// RevisionResult pairs a revision with its ordered check results and
// final decision.
type RevisionResult struct {
	RevID    int64         `json:"revid"`
	Tests    []CheckResult `json:"tests"`
	Decision Decision      `json:"decision"`
}

func approveDecision(reason string) *Decision {
	return &Decision{Status: DecisionApprove, Label: "Would be auto-approved", Reason: reason}
}

func blockedDecision(reason string) *Decision {
	return &Decision{Status: DecisionBlocked, Label: "Cannot be auto-approved", Reason: reason}
}

func manualDecision(reason string) *Decision {
	return &Decision{Status: DecisionManual, Label: "Requires manual review", Reason: reason}
}
