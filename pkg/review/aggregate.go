package review

// Aggregate folds check results into a revision decision. The first
// stopping result carries the decision verbatim; when no check stopped
// the pipeline the revision falls through to manual review.
func Aggregate(tests []CheckResult) Decision {
	for _, t := range tests {
		if t.ShouldStop && t.Decision != nil {
			return *t.Decision
		}
	}
	return Decision{
		Status: DecisionManual,
		Label:  "Requires human review",
		Reason: "no automatic rule approved or blocked this edit",
	}
}
