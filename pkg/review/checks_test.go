package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/clients"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

func TestBotUserCheck(t *testing.T) {
	check := &botUserCheck{}

	t.Run("bot flag on the edit approves", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Revision.Metadata = map[string]any{"rc_bot": true}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		require.NotNil(t, res.Decision)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
		assert.Equal(t, "Would be auto-approved", res.Decision.Label)
	})

	t.Run("bot profile approves", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Profile = &models.EditorProfile{Username: "Editor", IsBot: true}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
	})

	t.Run("regular user continues", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusNotOK, res.Status)
	})
}

func TestBlockedUserCheck(t *testing.T) {
	check := &blockedUserCheck{}

	t.Run("blocked user is blocked", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, &fakeHistory{blocked: true}))

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
		assert.Equal(t, "User was blocked after making this edit.", res.Decision.Reason)
	})

	t.Run("lookup failure blocks", func(t *testing.T) {
		history := &fakeHistory{blockedErr: errors.New("replica down")}
		rc := newTestContext(newTestDeps(nil, nil, history))

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, StatusFail, res.Status)
		assert.Equal(t, "Unable to verify the user was not blocked.", res.Decision.Reason)
	})

	t.Run("clean record continues", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("block log lookups are cached across evaluations", func(t *testing.T) {
		history := &fakeHistory{}
		rc := newTestContext(newTestDeps(nil, nil, history))

		check.Evaluate(context.Background(), rc)
		check.Evaluate(context.Background(), rc)

		assert.Equal(t, 1, history.blockedCalls)
	})
}

func TestAutoApprovedGroupCheck(t *testing.T) {
	check := &autoApprovedGroupCheck{}

	t.Run("configured group member approves", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.AutoGroups = map[string]string{"sysop": "Sysop"}
		rc.Profile = &models.EditorProfile{Username: "Editor", UserGroups: []string{"sysop"}}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
		assert.Contains(t, res.Message, "Sysop")
	})

	t.Run("non-member continues when groups are configured", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.AutoGroups = map[string]string{"sysop": "Sysop"}
		rc.Profile = &models.EditorProfile{Username: "Editor", IsAutoreviewed: true}

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusNotOK, res.Status)
	})

	t.Run("autoreviewed editor approves without an allow-list", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Profile = &models.EditorProfile{Username: "Editor", IsAutoreviewed: true}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
	})

	t.Run("autopatrol alone does not approve", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Profile = &models.EditorProfile{Username: "Editor", IsAutopatrolled: true}

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusNotOK, res.Status)
		assert.Equal(t, "The user does not have autoreview rights.", res.Message)
	})

	t.Run("unknown editor continues", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusNotOK, res.Status)
	})
}

func TestArticleToRedirectCheck(t *testing.T) {
	check := &articleToRedirectCheck{}

	t.Run("converting an article to a redirect blocks", func(t *testing.T) {
		api := &fakeWikiAPI{wikitexts: map[int64]string{99: "A real article about birds."}}
		rc := newTestContext(newTestDeps(nil, api, nil))
		rc.Revision.Wikitext = "#REDIRECT [[Birds]]"

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
		assert.Equal(t, "Article-to-redirect conversions require autoreview rights.", res.Decision.Reason)
	})

	t.Run("localized redirect alias counts as conversion", func(t *testing.T) {
		api := &fakeWikiAPI{wikitexts: map[int64]string{99: "Artikkeli linnuista."}}
		rc := newTestContext(newTestDeps(nil, api, nil))
		rc.Revision.Wikitext = "#OHJAUS [[Linnut]]"

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
	})

	t.Run("editing an existing redirect continues", func(t *testing.T) {
		api := &fakeWikiAPI{wikitexts: map[int64]string{99: "#REDIRECT [[Old target]]"}}
		rc := newTestContext(newTestDeps(nil, api, nil))
		rc.Revision.Wikitext = "#REDIRECT [[New target]]"

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("new page created as a redirect continues", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Revision.ParentID = 0
		rc.Revision.Wikitext = "#REDIRECT [[Target]]"

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("ordinary edit continues", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})
}

func TestAutopatrolCheck(t *testing.T) {
	check := &autopatrolCheck{}

	t.Run("autopatrolled editor approves", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Profile = &models.EditorProfile{Username: "Editor", IsAutopatrolled: true}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
		assert.Equal(t, "The user has autopatrol rights that allow auto-approval.", res.Decision.Reason)
	})

	t.Run("regular editor continues", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusNotOK, res.Status)
	})
}

func TestRedirectConversionBlocksAutopatrolledEditor(t *testing.T) {
	// The redirect gate runs between the group check and the autopatrol
	// shortcut: autopatrol alone must not approve a conversion.
	api := &fakeWikiAPI{wikitexts: map[int64]string{99: "A real article about birds."}}
	rc := newTestContext(newTestDeps(nil, api, nil))
	rc.Revision.Wikitext = "#REDIRECT [[Birds]]"
	rc.Profile = &models.EditorProfile{Username: "Editor", IsAutopatrolled: true}

	checks := []Check{
		&autoApprovedGroupCheck{},
		&articleToRedirectCheck{},
		&autopatrolCheck{},
	}
	out := RunPipeline(context.Background(), rc, checks)

	assert.Equal(t, DecisionBlocked, out.Decision.Status)
	assert.Equal(t, "Article-to-redirect conversions require autoreview rights.", out.Decision.Reason)
	require.Len(t, out.Tests, 2)
	assert.Equal(t, "auto-approved-group", out.Tests[0].ID)
	assert.Equal(t, "article-to-redirect-conversion", out.Tests[1].ID)
}

func TestInvalidISBNCheck(t *testing.T) {
	check := &invalidISBNCheck{}

	t.Run("invalid checksum blocks", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Revision.Wikitext = "A cited book, ISBN 1234567890, is listed."

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
		assert.Contains(t, res.Message, "1234567890")
	})

	t.Run("valid checksums pass", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Revision.Wikitext = "ISBN 0306406152 and ISBN 978-0-306-40615-7."

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})
}

func TestMLScoresCheck(t *testing.T) {
	check := &mlScoresCheck{}

	configure := func(rc *Context, modelType string, threshold float64) {
		rc.Config.MLModelType = modelType
		rc.Config.MLModelThreshold = threshold
	}

	t.Run("zero threshold disables the check", func(t *testing.T) {
		scores := &fakeScores{score: 0.99}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		configure(rc, models.ModelRevertRiskLanguageAgnostic, 0)

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
		assert.False(t, res.ShouldStop)
		assert.Zero(t, scores.fetchCalls)
	})

	t.Run("incompatible model is skipped", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		configure(rc, models.ModelArticleQuality, 0.5)

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
		assert.False(t, res.ShouldStop)
	})

	t.Run("score above threshold blocks", func(t *testing.T) {
		rc := newTestContext(newTestDeps(&fakeScores{score: 0.91}, nil, nil))
		configure(rc, models.ModelRevertRiskLanguageAgnostic, 0.9)

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
	})

	t.Run("fetch failure does not block", func(t *testing.T) {
		scores := &fakeScores{err: errors.New("lift wing down")}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		configure(rc, models.ModelRevertRiskLanguageAgnostic, 0.9)

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusNotOK, res.Status)
		assert.False(t, res.ShouldStop)
		assert.Contains(t, res.Message, "Could not fetch")
	})

	t.Run("score is cached across evaluations", func(t *testing.T) {
		scores := &fakeScores{score: 0.2}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		configure(rc, models.ModelRevertRiskLanguageAgnostic, 0.9)

		first := check.Evaluate(context.Background(), rc)
		second := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusOK, first.Status)
		assert.Equal(t, first.Message, second.Message)
		assert.Equal(t, 1, scores.fetchCalls)
	})
}

func TestORESScoresCheck(t *testing.T) {
	check := &oresScoresCheck{}
	ptr := func(v float64) *float64 { return &v }

	t.Run("zero thresholds disable the check", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
	})

	t.Run("fetch failure does not block", func(t *testing.T) {
		scores := &fakeScores{oresErr: errors.New("ores down")}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		rc.Config.ORESDamagingThreshold = 0.7

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusNotOK, res.Status)
		assert.False(t, res.ShouldStop)
	})

	t.Run("high damaging score blocks", func(t *testing.T) {
		scores := &fakeScores{ores: clients.ORESScores{Damaging: ptr(0.8)}}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		rc.Config.ORESDamagingThreshold = 0.7

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
	})

	t.Run("low goodfaith score blocks", func(t *testing.T) {
		scores := &fakeScores{ores: clients.ORESScores{Goodfaith: ptr(0.1)}}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		rc.Config.ORESGoodfaithThreshold = 0.5

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
	})

	t.Run("acceptable scores continue", func(t *testing.T) {
		scores := &fakeScores{ores: clients.ORESScores{Damaging: ptr(0.1), Goodfaith: ptr(0.9)}}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		rc.Config.ORESDamagingThreshold = 0.7
		rc.Config.ORESGoodfaithThreshold = 0.5

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
		assert.Contains(t, res.Message, "damaging: 0.100")
		assert.Contains(t, res.Message, "goodfaith: 0.900")
	})

	t.Run("scores are cached across evaluations", func(t *testing.T) {
		scores := &fakeScores{ores: clients.ORESScores{Damaging: ptr(0.1)}}
		rc := newTestContext(newTestDeps(scores, nil, nil))
		rc.Config.ORESDamagingThreshold = 0.7

		first := check.Evaluate(context.Background(), rc)
		second := check.Evaluate(context.Background(), rc)

		assert.Equal(t, first.Message, second.Message)
		assert.Equal(t, 1, scores.oresCalls)
	})
}

func TestReferenceOnlyEditCheck(t *testing.T) {
	check := &referenceOnlyEditCheck{}

	setup := func(parent, pending string, api *fakeWikiAPI) *Context {
		if api == nil {
			api = &fakeWikiAPI{}
		}
		if api.wikitexts == nil {
			api.wikitexts = make(map[int64]string)
		}
		api.wikitexts[99] = parent
		rc := newTestContext(newTestDeps(nil, api, nil))
		rc.Revision.Wikitext = pending
		return rc
	}

	t.Run("content edit is skipped", func(t *testing.T) {
		rc := setup("Old text.", "New text entirely.", nil)

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
		assert.False(t, res.ShouldStop)
	})

	t.Run("reference without URLs approves", func(t *testing.T) {
		rc := setup("Some text.", "Some text.<ref>Tuomi 1999, p. 42</ref>", nil)

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
	})

	t.Run("reference with unknown domain goes to manual review", func(t *testing.T) {
		api := &fakeWikiAPI{knownDomains: map[string]bool{}}
		rc := setup("Some text.", "Some text.<ref>https://unseen.example.org/article</ref>", api)

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionManual, res.Decision.Status)
		assert.Contains(t, res.Message, "unseen.example.org")
	})

	t.Run("reference with known domain approves", func(t *testing.T) {
		api := &fakeWikiAPI{knownDomains: map[string]bool{"helsinki.fi": true}}
		rc := setup("Some text.", "Some text.<ref>https://www.helsinki.fi/study</ref>", api)

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
		assert.Equal(t, []string{"helsinki.fi"}, api.domainCalls)
	})

	t.Run("replacing an existing reference is not fast-tracked", func(t *testing.T) {
		rc := setup("Some text.<ref>Old source A</ref>", "Some text.<ref>New source B</ref>", nil)

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
		assert.False(t, res.ShouldStop)
		assert.Nil(t, res.Decision)
	})

	t.Run("unverified domain reason names the count", func(t *testing.T) {
		api := &fakeWikiAPI{knownDomains: map[string]bool{}}
		rc := setup("Some text.", "Some text.<ref>https://unseen.example.org/article</ref>", api)

		res := check.Evaluate(context.Background(), rc)

		require.NotNil(t, res.Decision)
		assert.Equal(t, "Reference-only edit contains 1 unverified domain(s).", res.Decision.Reason)
	})

	t.Run("domain lookups are cached across evaluations", func(t *testing.T) {
		api := &fakeWikiAPI{knownDomains: map[string]bool{"helsinki.fi": true}}
		rc := setup("Some text.", "Some text.<ref>https://www.helsinki.fi/study</ref>", api)

		first := check.Evaluate(context.Background(), rc)
		second := check.Evaluate(context.Background(), rc)

		assert.Equal(t, first.Decision.Status, second.Decision.Status)
		assert.Equal(t, []string{"helsinki.fi"}, api.domainCalls)
	})
}

func TestManualUnapprovalCheck(t *testing.T) {
	check := &manualUnapprovalCheck{}

	t.Run("manually un-approved revision blocks", func(t *testing.T) {
		api := &fakeWikiAPI{unapproved: true}
		rc := newTestContext(newTestDeps(nil, api, nil))

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
		assert.Equal(t, "Revision was manually un-approved by a human reviewer.", res.Decision.Reason)
	})

	t.Run("review log failure does not block", func(t *testing.T) {
		api := &fakeWikiAPI{unapproveErr: errors.New("api down")}
		rc := newTestContext(newTestDeps(nil, api, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("clean review log continues", func(t *testing.T) {
		api := &fakeWikiAPI{}
		rc := newTestContext(newTestDeps(nil, api, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("review log lookups are cached across evaluations", func(t *testing.T) {
		api := &fakeWikiAPI{}
		rc := newTestContext(newTestDeps(nil, api, nil))

		check.Evaluate(context.Background(), rc)
		check.Evaluate(context.Background(), rc)

		assert.Equal(t, 1, api.unapproveCalls)
	})
}

func TestRevertDetectionCheck(t *testing.T) {
	check := &revertDetectionCheck{}

	t.Run("no revert tags is skipped", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
	})

	t.Run("revert tag without parameters is skipped", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Revision.ChangeTags = []string{"mw-undo"}

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
	})

	t.Run("revert to reviewed content approves", func(t *testing.T) {
		history := &fakeHistory{reviewed: []models.ReviewedContent{{SHA1: "abc123", PageID: 1, MaxReviewedID: 80}}}
		rc := newTestContext(newTestDeps(nil, nil, history))
		rc.Revision.ChangeTags = []string{"mw-rollback"}
		rc.Revision.ChangeTagParams = []string{`{"oldestRevertedRevId":95,"newestRevertedRevId":97,"originalRevisionId":80}`}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
		assert.Contains(t, res.Message, "abc123")
		assert.Equal(t, []int64{80, 95, 97}, history.queriedIDs)
	})

	t.Run("revert to unreviewed content blocks", func(t *testing.T) {
		history := &fakeHistory{}
		rc := newTestContext(newTestDeps(nil, nil, history))
		rc.Revision.ChangeTags = []string{"mw-undo"}
		rc.Revision.ChangeTagParams = []string{`{"originalRevisionId":42}`}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
	})

	t.Run("history failure blocks", func(t *testing.T) {
		history := &fakeHistory{reviewedErr: errors.New("replica down")}
		rc := newTestContext(newTestDeps(nil, nil, history))
		rc.Revision.ChangeTags = []string{"mw-reverted"}
		rc.Revision.ChangeTagParams = []string{`{"originalRevisionId":42}`}

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, StatusFail, res.Status)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
	})

	t.Run("malformed tag parameters are ignored", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Revision.ChangeTags = []string{"mw-undo"}
		rc.Revision.ChangeTagParams = []string{`not json`}

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
	})

	t.Run("review lookups are cached across evaluations", func(t *testing.T) {
		history := &fakeHistory{reviewed: []models.ReviewedContent{{SHA1: "abc123"}}}
		rc := newTestContext(newTestDeps(nil, nil, history))
		rc.Revision.ChangeTags = []string{"mw-rollback"}
		rc.Revision.ChangeTagParams = []string{`{"originalRevisionId":80}`}

		check.Evaluate(context.Background(), rc)
		check.Evaluate(context.Background(), rc)

		assert.Equal(t, 1, history.reviewedCalls)
	})
}

func TestCategoryRemovalCheck(t *testing.T) {
	check := &categoryRemovalCheck{}

	setup := func(parent, pending string) *Context {
		api := &fakeWikiAPI{wikitexts: map[int64]string{99: parent}}
		rc := newTestContext(newTestDeps(nil, api, nil))
		rc.Revision.Wikitext = pending
		return rc
	}

	t.Run("removing every category blocks", func(t *testing.T) {
		rc := setup("Text. [[Category:Birds]]", "Text.")

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionBlocked, res.Decision.Status)
	})

	t.Run("localized category alias counts", func(t *testing.T) {
		rc := setup("Teksti. [[Luokka:Linnut]]", "Teksti. [[Luokka:Linnut]] Lisää.")
		rc.Config.CategoryAliases = []string{"Luokka"}

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("redirect conversion is not flagged", func(t *testing.T) {
		rc := setup("Text. [[Category:Birds]]", "#REDIRECT [[Other page]]")

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("new pages are not flagged", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))
		rc.Revision.ParentID = 0

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusOK, res.Status)
	})
}

func TestSupersededAdditionsCheck(t *testing.T) {
	check := &supersededAdditionsCheck{}

	t.Run("zero threshold disables the check", func(t *testing.T) {
		rc := newTestContext(newTestDeps(nil, nil, nil))

		res := check.Evaluate(context.Background(), rc)

		assert.Equal(t, StatusSkip, res.Status)
	})

	t.Run("vanished addition approves", func(t *testing.T) {
		api := &fakeWikiAPI{wikitexts: map[int64]string{90: "zzzz qqqq xxxx stable article body"}}
		rc := newTestContext(newTestDeps(nil, api, nil))
		rc.Revision.ParentID = 0
		rc.Revision.Wikitext = "abcdefgh vandal insertion"
		rc.Config.SupersededSimilarityThreshold = 0.4

		res := check.Evaluate(context.Background(), rc)

		require.True(t, res.ShouldStop)
		assert.Equal(t, DecisionApprove, res.Decision.Status)
	})

	t.Run("surviving addition continues", func(t *testing.T) {
		api := &fakeWikiAPI{wikitexts: map[int64]string{90: "Intro. A well sourced paragraph about finches. Outro."}}
		rc := newTestContext(newTestDeps(nil, api, nil))
		rc.Revision.ParentID = 0
		rc.Revision.Wikitext = "A well sourced paragraph about finches."
		rc.Config.SupersededSimilarityThreshold = 0.4

		res := check.Evaluate(context.Background(), rc)

		assert.False(t, res.ShouldStop)
		assert.Equal(t, StatusNotOK, res.Status)
	})
}
