package review

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/cache"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/clients"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

type fakeScores struct {
	score      float64
	err        error
	fetchCalls int

	ores      clients.ORESScores
	oresErr   error
	oresCalls int
}

func (f *fakeScores) FetchScore(ctx context.Context, revID int64, lang, project, modelType string) (float64, error) {
	f.fetchCalls++
	return f.score, f.err
}

func (f *fakeScores) FetchORESScores(ctx context.Context, code, family string, revID int64, damaging, goodfaith bool) (clients.ORESScores, error) {
	f.oresCalls++
	return f.ores, f.oresErr
}

type fakeWikiAPI struct {
	wikitexts map[int64]string
	html      map[int64]string

	unapproved     bool
	unapproveErr   error
	unapproveCalls int

	knownDomains map[string]bool
	domainErr    error
	domainCalls  []string
}

func (f *fakeWikiAPI) RevisionWikitext(ctx context.Context, revID int64) (string, error) {
	text, ok := f.wikitexts[revID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return text, nil
}

func (f *fakeWikiAPI) RenderedHTML(ctx context.Context, revID int64) (string, error) {
	html, ok := f.html[revID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return html, nil
}

func (f *fakeWikiAPI) HasManualUnapproval(ctx context.Context, pageTitle string, revID int64) (bool, error) {
	f.unapproveCalls++
	return f.unapproved, f.unapproveErr
}

func (f *fakeWikiAPI) DomainPreviouslyUsed(ctx context.Context, domain string) (bool, error) {
	f.domainCalls = append(f.domainCalls, domain)
	if f.domainErr != nil {
		return false, f.domainErr
	}
	return f.knownDomains[domain], nil
}

type fakeHistory struct {
	blocked      bool
	blockedErr   error
	blockedCalls int

	reviewed      []models.ReviewedContent
	reviewedErr   error
	reviewedCalls int
	queriedIDs    []int64
}

func (f *fakeHistory) FindReviewedByContentHash(ctx context.Context, revIDs []int64) ([]models.ReviewedContent, error) {
	f.reviewedCalls++
	f.queriedIDs = append(f.queriedIDs, revIDs...)
	return f.reviewed, f.reviewedErr
}

func (f *fakeHistory) WasUserBlockedAfter(ctx context.Context, username string, since time.Time) (bool, error) {
	f.blockedCalls++
	return f.blocked, f.blockedErr
}

func newTestDeps(scores *fakeScores, api *fakeWikiAPI, history *fakeHistory) *Dependencies {
	if scores == nil {
		scores = &fakeScores{}
	}
	if api == nil {
		api = &fakeWikiAPI{}
	}
	if history == nil {
		history = &fakeHistory{}
	}
	return &Dependencies{
		Scores:        scores,
		WikiAPI:       api,
		History:       history,
		ScoreCache:    cache.New[float64](time.Minute, 100),
		TextCache:     cache.New[string](time.Minute, 100),
		LookupCache:   cache.New[bool](time.Minute, 100),
		ORESCache:     cache.New[clients.ORESScores](time.Minute, 100),
		ReviewedCache: cache.New[[]models.ReviewedContent](time.Minute, 100),
		Logger:        zap.NewNop(),
	}
}

func newTestContext(deps *Dependencies) *Context {
	return &Context{
		Revision: models.PendingRevision{
			PageID:    1,
			RevID:     100,
			ParentID:  99,
			UserName:  "Editor",
			Timestamp: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
			Wikitext:  "Plain article text.",
		},
		Page: models.PendingPage{
			PageID:      1,
			Title:       "Example",
			StableRevID: 90,
		},
		Wiki: models.Wiki{
			Name:   "Finnish Wikipedia",
			Code:   "fi",
			Family: "wikipedia",
		},
		Config:          models.WikiConfiguration{WikiCode: "fi"},
		RedirectAliases: []string{"#REDIRECT", "#OHJAUS"},
		Deps:            deps,
	}
}
