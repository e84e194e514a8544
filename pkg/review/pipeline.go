package review

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PipelineResult is the output of evaluating one revision.
type PipelineResult struct {
	Tests    []CheckResult
	Decision Decision
}

// RunPipeline evaluates the checks in order against the shared context,
// stopping at the first terminal result. A panicking check is converted
// per its fail mode; fail-open panics skip the check, fail-closed
// panics block. When the context deadline expires mid-pipeline the
// remaining checks stay unevaluated and the decision falls back to
// manual review.
func RunPipeline(ctx context.Context, rc *Context, checks []Check) PipelineResult {
	logger := rc.Deps.Logger

	var tests []CheckResult
	for _, check := range checks {
		if ctx.Err() != nil {
			logger.Warn("evaluation deadline exceeded",
				zap.Int64("rev_id", rc.Revision.RevID),
				zap.String("next_check", check.ID()))
			return PipelineResult{
				Tests: tests,
				Decision: Decision{
					Status: DecisionManual,
					Label:  "Requires human review",
					Reason: "Evaluation deadline exceeded before all checks completed.",
				},
			}
		}

		result := runCheck(ctx, check, rc)
		tests = append(tests, result)

		if result.ShouldStop {
			break
		}
	}

	return PipelineResult{Tests: tests, Decision: Aggregate(tests)}
}

// runCheck invokes one check, containing panics. Timing goes to the
// log only; results stay byte-stable across re-evaluations.
func runCheck(ctx context.Context, check Check, rc *Context) (res CheckResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			rc.Deps.Logger.Error("check panicked",
				zap.String("check", check.ID()),
				zap.Int64("rev_id", rc.Revision.RevID),
				zap.Any("panic", r))
			if check.FailMode() == FailClosed {
				res = terminal(check, StatusFail,
					"The check failed unexpectedly.",
					blockedDecision("A required check failed unexpectedly."))
			} else {
				res = result(check, StatusSkip, "The check failed unexpectedly and was skipped.")
			}
		}
		rc.Deps.Logger.Debug("check evaluated",
			zap.String("check", check.ID()),
			zap.Int64("rev_id", rc.Revision.RevID),
			zap.String("status", string(res.Status)),
			zap.Duration("duration", time.Since(start)))
	}()

	return check.Evaluate(ctx, rc)
}
