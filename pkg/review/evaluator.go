package review

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/stores"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// PageResult is one evaluation run over a page's pending revisions.
type PageResult struct {
	RunID     string           `json:"run_id"`
	WikiCode  string           `json:"wiki_code"`
	PageID    int64            `json:"pageid"`
	Title     string           `json:"title"`
	Revisions []RevisionResult `json:"revisions"`
	StartedAt time.Time        `json:"started_at"`
}

// PageEvaluator walks a page's pending revisions oldest first and runs
// the configured checks against each one.
type PageEvaluator struct {
	wikis     *stores.WikiStore
	configs   *stores.ConfigStore
	revisions *stores.RevisionStore
	profiles  *stores.ProfileStore
	deps      *Dependencies
	logger    *zap.Logger
}

// NewPageEvaluator wires the evaluator to the engine's stores and
// check dependencies.
func NewPageEvaluator(
	wikis *stores.WikiStore,
	configs *stores.ConfigStore,
	revisions *stores.RevisionStore,
	profiles *stores.ProfileStore,
	deps *Dependencies,
	logger *zap.Logger,
) *PageEvaluator {
	return &PageEvaluator{
		wikis:     wikis,
		configs:   configs,
		revisions: revisions,
		profiles:  profiles,
		deps:      deps,
		logger:    logger.Named("evaluator"),
	}
}

// EvaluatePage evaluates every pending revision of a page except the
// stable one, oldest first. Each revision is decided independently; a
// blocked revision does not stop evaluation of the ones after it.
func (e *PageEvaluator) EvaluatePage(ctx context.Context, wikiCode string, pageID int64) (PageResult, error) {
	startedAt := time.Now()

	wiki, err := e.wikis.Get(wikiCode)
	if err != nil {
		return PageResult{}, fmt.Errorf("resolving wiki: %w", err)
	}
	config, err := e.configs.Get(wikiCode)
	if err != nil {
		return PageResult{}, fmt.Errorf("resolving configuration: %w", err)
	}
	page, err := e.revisions.GetPage(wikiCode, pageID)
	if err != nil {
		return PageResult{}, fmt.Errorf("resolving page: %w", err)
	}

	checks, err := EnabledChecks(config)
	if err != nil {
		return PageResult{}, err
	}

	pending := e.pendingRevisions(wikiCode, page)

	result := PageResult{
		RunID:     uuid.NewString(),
		WikiCode:  wikiCode,
		PageID:    pageID,
		Title:     page.Title,
		Revisions: make([]RevisionResult, 0, len(pending)),
		StartedAt: startedAt,
	}

	profiles := make(map[string]*models.EditorProfile)
	autoGroups := casefoldLookup(config.AutoApprovedGroups)
	blockingCategories := casefoldLookup(config.BlockingCategories)
	redirectAliases := config.RedirectAliases
	if len(redirectAliases) == 0 {
		redirectAliases = wikitext.FallbackRedirectAliases(wiki.Code)
	}

	for _, rev := range pending {
		profile, seen := profiles[rev.UserName]
		if !seen {
			profile = e.lookupProfile(wikiCode, rev.UserName)
			profiles[rev.UserName] = profile
		}

		rc := &Context{
			Revision:           rev,
			Page:               page,
			Wiki:               wiki,
			Config:             config,
			Profile:            profile,
			AutoGroups:         autoGroups,
			BlockingCategories: blockingCategories,
			RedirectAliases:    redirectAliases,
			Deps:               e.deps,
		}

		out := RunPipeline(ctx, rc, checks)
		result.Revisions = append(result.Revisions, RevisionResult{
			RevID:    rev.RevID,
			Tests:    out.Tests,
			Decision: out.Decision,
		})

		e.logger.Info("revision evaluated",
			zap.String("wiki", wikiCode),
			zap.Int64("pageid", pageID),
			zap.Int64("rev_id", rev.RevID),
			zap.String("decision", string(out.Decision.Status)))
	}

	return result, nil
}

// EvaluatePages evaluates several pages of one wiki concurrently. The
// limit caps in-flight page evaluations; results keep the input order.
func (e *PageEvaluator) EvaluatePages(ctx context.Context, wikiCode string, pageIDs []int64, limit int) ([]PageResult, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]PageResult, len(pageIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, pageID := range pageIDs {
		g.Go(func() error {
			res, err := e.EvaluatePage(gctx, wikiCode, pageID)
			if err != nil {
				return fmt.Errorf("page %d: %w", pageID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// pendingRevisions returns the page's pending revisions with the stable
// revision excluded, ordered oldest first by (timestamp, revid).
func (e *PageEvaluator) pendingRevisions(wikiCode string, page models.PendingPage) []models.PendingRevision {
	all := e.revisions.PendingRevisions(wikiCode, page.PageID)
	pending := make([]models.PendingRevision, 0, len(all))
	for _, rev := range all {
		if rev.RevID == page.StableRevID {
			continue
		}
		pending = append(pending, rev)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if !pending[i].Timestamp.Equal(pending[j].Timestamp) {
			return pending[i].Timestamp.Before(pending[j].Timestamp)
		}
		return pending[i].RevID < pending[j].RevID
	})
	return pending
}

func (e *PageEvaluator) lookupProfile(wikiCode, username string) *models.EditorProfile {
	profile, ok := e.profiles.Get(wikiCode, username)
	if !ok {
		return nil
	}
	return &profile
}

func casefoldLookup(names []string) map[string]string {
	lookup := make(map[string]string, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		lookup[strings.ToLower(name)] = name
	}
	return lookup
}
