package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/cache"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/clients"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

// ScoreService fetches ML scores for revisions.
type ScoreService interface {
	FetchScore(ctx context.Context, revID int64, lang, project, modelType string) (float64, error)
	FetchORESScores(ctx context.Context, code, family string, revID int64, damaging, goodfaith bool) (clients.ORESScores, error)
}

// WikiAPI is the subset of the MediaWiki action API the checks use.
type WikiAPI interface {
	RevisionWikitext(ctx context.Context, revID int64) (string, error)
	RenderedHTML(ctx context.Context, revID int64) (string, error)
	HasManualUnapproval(ctx context.Context, pageTitle string, revID int64) (bool, error)
	DomainPreviouslyUsed(ctx context.Context, domain string) (bool, error)
}

// ReviewHistory answers questions about past reviews and blocks from a
// wiki replica.
type ReviewHistory interface {
	FindReviewedByContentHash(ctx context.Context, revIDs []int64) ([]models.ReviewedContent, error)
	WasUserBlockedAfter(ctx context.Context, username string, since time.Time) (bool, error)
}

// Dependencies bundles the collaborators and caches every check may use.
// Constructed once and shared across evaluations; all members are safe
// for concurrent use.
type Dependencies struct {
	Scores  ScoreService
	WikiAPI WikiAPI
	History ReviewHistory

	// ScoreCache keys are (revision id, model type).
	ScoreCache *cache.Cache[float64]
	// TextCache holds fetched wikitext keyed (revision id, "wikitext")
	// and rendered HTML keyed (revision id, "html").
	TextCache *cache.Cache[string]
	// LookupCache holds boolean collaborator answers keyed
	// (subject, check id): domain usage, block log, review log.
	LookupCache *cache.Cache[bool]
	// ORESCache keys are (revision id and model flags, "ores-scores").
	ORESCache *cache.Cache[clients.ORESScores]
	// ReviewedCache keys are the sorted reverted revision ids joined.
	ReviewedCache *cache.Cache[[]models.ReviewedContent]

	Logger *zap.Logger
}

// Context is the shared evaluation context built once per revision and
// passed to every check.
type Context struct {
	Revision models.PendingRevision
	Page     models.PendingPage
	Wiki     models.Wiki
	Config   models.WikiConfiguration

	// Profile is nil for unknown editors.
	Profile *models.EditorProfile

	// AutoGroups and BlockingCategories map casefolded names to their
	// configured display names.
	AutoGroups         map[string]string
	BlockingCategories map[string]string
	RedirectAliases    []string

	Deps *Dependencies
}

// CurrentWikitext returns the revision's wikitext, fetching it from the
// API when the ingested record does not carry it.
func (c *Context) CurrentWikitext(ctx context.Context) string {
	if c.Revision.Wikitext != "" {
		return c.Revision.Wikitext
	}
	return c.fetchWikitext(ctx, c.Revision.RevID)
}

// ParentWikitext returns the parent revision's wikitext, or "" when the
// revision has no parent or the fetch fails.
func (c *Context) ParentWikitext(ctx context.Context) string {
	if c.Revision.ParentID == 0 {
		return ""
	}
	return c.fetchWikitext(ctx, c.Revision.ParentID)
}

// CurrentHTML returns the revision's rendered HTML, fetching on demand.
func (c *Context) CurrentHTML(ctx context.Context) string {
	if c.Revision.RenderedHTML != "" {
		return c.Revision.RenderedHTML
	}
	return c.fetchHTML(ctx, c.Revision.RevID)
}

// ParentHTML returns the parent revision's rendered HTML, or "" when
// there is no parent or the fetch fails.
func (c *Context) ParentHTML(ctx context.Context) string {
	if c.Revision.ParentID == 0 {
		return ""
	}
	return c.fetchHTML(ctx, c.Revision.ParentID)
}

func (c *Context) fetchWikitext(ctx context.Context, revID int64) string {
	text, err := c.Deps.TextCache.GetOrFetch(ctx, textCacheKey(revID, "wikitext"), func(fctx context.Context) (string, error) {
		return c.Deps.WikiAPI.RevisionWikitext(fctx, revID)
	})
	if err != nil {
		c.Deps.Logger.Warn("failed to fetch wikitext",
			zap.Int64("rev_id", revID), zap.Error(err))
		return ""
	}
	return text
}

func (c *Context) fetchHTML(ctx context.Context, revID int64) string {
	html, err := c.Deps.TextCache.GetOrFetch(ctx, textCacheKey(revID, "html"), func(fctx context.Context) (string, error) {
		return c.Deps.WikiAPI.RenderedHTML(fctx, revID)
	})
	if err != nil {
		c.Deps.Logger.Warn("failed to fetch rendered html",
			zap.Int64("rev_id", revID), zap.Error(err))
		return ""
	}
	return html
}

// DomainPreviouslyUsed reports whether the wiki has cited the domain
// before, caching the answer per domain.
func (c *Context) DomainPreviouslyUsed(ctx context.Context, domain string) (bool, error) {
	return c.Deps.LookupCache.GetOrFetch(ctx, cache.Key(domain, "reference-only-edit"), func(fctx context.Context) (bool, error) {
		return c.Deps.WikiAPI.DomainPreviouslyUsed(fctx, domain)
	})
}

// UserBlockedAfter caches block-log lookups per user and cutoff.
func (c *Context) UserBlockedAfter(ctx context.Context, username string, since time.Time) (bool, error) {
	subject := username + "@" + since.UTC().Format(time.RFC3339)
	return c.Deps.LookupCache.GetOrFetch(ctx, cache.Key(subject, "blocked-user"), func(fctx context.Context) (bool, error) {
		return c.Deps.History.WasUserBlockedAfter(fctx, username, since)
	})
}

// ManuallyUnapproved caches review-log lookups per revision.
func (c *Context) ManuallyUnapproved(ctx context.Context) (bool, error) {
	subject := strconv.FormatInt(c.Revision.RevID, 10)
	return c.Deps.LookupCache.GetOrFetch(ctx, cache.Key(subject, "manual-unapproval"), func(fctx context.Context) (bool, error) {
		return c.Deps.WikiAPI.HasManualUnapproval(fctx, c.Page.Title, c.Revision.RevID)
	})
}

// ORESScores caches ORES fetches per revision and requested models.
func (c *Context) ORESScores(ctx context.Context, damaging, goodfaith bool) (clients.ORESScores, error) {
	subject := fmt.Sprintf("%d|%t|%t", c.Revision.RevID, damaging, goodfaith)
	return c.Deps.ORESCache.GetOrFetch(ctx, cache.Key(subject, "ores-scores"), func(fctx context.Context) (clients.ORESScores, error) {
		return c.Deps.Scores.FetchORESScores(fctx, c.Wiki.Code, c.Wiki.Family,
			c.Revision.RevID, damaging, goodfaith)
	})
}

// ReviewedByContentHash caches replica review lookups keyed by the
// candidate revision id set. Callers pass sorted ids.
func (c *Context) ReviewedByContentHash(ctx context.Context, revIDs []int64) ([]models.ReviewedContent, error) {
	parts := make([]string, len(revIDs))
	for i, id := range revIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return c.Deps.ReviewedCache.GetOrFetch(ctx, cache.Key(strings.Join(parts, ","), "revert-detection"), func(fctx context.Context) ([]models.ReviewedContent, error) {
		return c.Deps.History.FindReviewedByContentHash(fctx, revIDs)
	})
}

func textCacheKey(revID int64, kind string) string {
	return cache.Key(strconv.FormatInt(revID, 10), kind)
}
