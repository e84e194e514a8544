package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

type stubCheck struct {
	id   string
	mode FailMode
	eval func(ctx context.Context, rc *Context) CheckResult
}

func (s *stubCheck) ID() string         { return s.id }
func (s *stubCheck) Title() string      { return s.id }
func (s *stubCheck) FailMode() FailMode { return s.mode }

func (s *stubCheck) Evaluate(ctx context.Context, rc *Context) CheckResult {
	return s.eval(ctx, rc)
}

func passing(id string) *stubCheck {
	c := &stubCheck{id: id, mode: FailOpen}
	c.eval = func(ctx context.Context, rc *Context) CheckResult {
		return result(c, StatusOK, "fine")
	}
	return c
}

func TestRunPipelineStopsAtFirstTerminalResult(t *testing.T) {
	rc := newTestContext(newTestDeps(nil, nil, nil))
	rc.Revision.Metadata = map[string]any{"rc_bot": true}

	checks := []Check{passing("first"), &botUserCheck{}, passing("never-reached")}
	out := RunPipeline(context.Background(), rc, checks)

	require.Len(t, out.Tests, 2)
	assert.Equal(t, "first", out.Tests[0].ID)
	assert.Equal(t, "bot-user", out.Tests[1].ID)
	assert.Equal(t, DecisionApprove, out.Decision.Status)
	assert.Equal(t, "Would be auto-approved", out.Decision.Label)
}

func TestRunPipelineFallsBackToManualReview(t *testing.T) {
	rc := newTestContext(newTestDeps(nil, nil, nil))

	out := RunPipeline(context.Background(), rc, []Check{passing("a"), passing("b")})

	require.Len(t, out.Tests, 2)
	assert.Equal(t, DecisionManual, out.Decision.Status)
	assert.Equal(t, "Requires human review", out.Decision.Label)
	assert.Equal(t, "no automatic rule approved or blocked this edit", out.Decision.Reason)
}

func TestRunPipelinePanicHandling(t *testing.T) {
	panicking := func(id string, mode FailMode) *stubCheck {
		return &stubCheck{id: id, mode: mode, eval: func(ctx context.Context, rc *Context) CheckResult {
			panic("boom")
		}}
	}

	t.Run("fail-open panic skips the check", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		out := RunPipeline(context.Background(), rc, []Check{panicking("flaky", FailOpen), passing("after")})

		require.Len(t, out.Tests, 2)
		assert.Equal(t, StatusSkip, out.Tests[0].Status)
		assert.Equal(t, DecisionManual, out.Decision.Status)
	})

	t.Run("fail-closed panic blocks", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		out := RunPipeline(context.Background(), rc, []Check{panicking("strict", FailClosed), passing("after")})

		require.Len(t, out.Tests, 1)
		assert.Equal(t, StatusFail, out.Tests[0].Status)
		assert.Equal(t, DecisionBlocked, out.Decision.Status)
	})
}

func TestRunPipelineDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := newTestContext(newTestDeps(nil, nil, nil))
	out := RunPipeline(ctx, rc, []Check{passing("never-run")})

	assert.Empty(t, out.Tests)
	assert.Equal(t, DecisionManual, out.Decision.Status)
	assert.Contains(t, out.Decision.Reason, "deadline")
}

func TestRegistryOrder(t *testing.T) {
	want := []string{
		"broken-wikicode",
		"manual-unapproval",
		"bot-user",
		"blocked-user",
		"auto-approved-group",
		"article-to-redirect-conversion",
		"autopatrol",
		"blocking-categories",
		"new-render-errors",
		"invalid-isbn",
		"reference-only-edit",
		"revert-detection",
		"superseded-additions",
		"all-categories-removed",
		"ores-scores",
		"ml-scores",
	}

	var got []string
	for _, reg := range Registry() {
		got = append(got, reg.Check.ID())
	}
	assert.Equal(t, want, got)
}

func TestEnabledChecks(t *testing.T) {
	t.Run("empty configuration enables all checks", func(t *testing.T) {
		checks, err := EnabledChecks(models.WikiConfiguration{})

		require.NoError(t, err)
		assert.Len(t, checks, len(Registry()))
	})

	t.Run("explicit list keeps its order", func(t *testing.T) {
		config := models.WikiConfiguration{EnabledChecks: []string{"invalid-isbn", "bot-user"}}

		checks, err := EnabledChecks(config)

		require.NoError(t, err)
		require.Len(t, checks, 2)
		assert.Equal(t, "invalid-isbn", checks[0].ID())
		assert.Equal(t, "bot-user", checks[1].ID())
	})

	t.Run("unknown id fails", func(t *testing.T) {
		config := models.WikiConfiguration{EnabledChecks: []string{"no-such-check"}}

		_, err := EnabledChecks(config)

		assert.ErrorIs(t, err, apperrors.ErrUnknownCheck)
	})
}
