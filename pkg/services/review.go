package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/cache"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/clients"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/review"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/stores"
)

// WikiAPIFactory builds a review.WikiAPI client for one wiki.
type WikiAPIFactory func(wiki models.Wiki) review.WikiAPI

// ReviewService evaluates pages' pending revisions and exposes the
// check registry.
type ReviewService interface {
	EvaluatePage(ctx context.Context, wikiCode string, pageID int64) (review.PageResult, error)
	EvaluatePages(ctx context.Context, wikiCode string, pageIDs []int64) ([]review.PageResult, error)
	Checks() []review.Registration
}

type reviewService struct {
	wikis     *stores.WikiStore
	configs   *stores.ConfigStore
	revisions *stores.RevisionStore
	profiles  *stores.ProfileStore

	configuration ConfigurationService
	scores        review.ScoreService
	history       review.ReviewHistory
	wikiAPI       WikiAPIFactory

	cacheTTL  time.Duration
	cacheSize int

	concurrency int
	logger      *zap.Logger

	mu         sync.Mutex
	evaluators map[string]*review.PageEvaluator
}

// ReviewServiceParams collects the collaborators of a review service.
type ReviewServiceParams struct {
	Wikis     *stores.WikiStore
	Configs   *stores.ConfigStore
	Revisions *stores.RevisionStore
	Profiles  *stores.ProfileStore

	Configuration ConfigurationService
	Scores        review.ScoreService
	History       review.ReviewHistory
	WikiAPI       WikiAPIFactory

	// CacheTTL and CacheSize size the shared score and text caches.
	CacheTTL  time.Duration
	CacheSize int

	// Concurrency caps in-flight page evaluations per request.
	Concurrency int

	Logger *zap.Logger
}

// NewReviewService wires a review service.
func NewReviewService(p ReviewServiceParams) ReviewService {
	if p.CacheTTL <= 0 {
		p.CacheTTL = 15 * time.Minute
	}
	if p.CacheSize <= 0 {
		p.CacheSize = 10000
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 4
	}
	return &reviewService{
		wikis:         p.Wikis,
		configs:       p.Configs,
		revisions:     p.Revisions,
		profiles:      p.Profiles,
		configuration: p.Configuration,
		scores:        p.Scores,
		history:       p.History,
		wikiAPI:       p.WikiAPI,
		cacheTTL:      p.CacheTTL,
		cacheSize:     p.CacheSize,
		concurrency:   p.Concurrency,
		logger:        p.Logger.Named("review"),
		evaluators:    make(map[string]*review.PageEvaluator),
	}
}

func (s *reviewService) EvaluatePage(ctx context.Context, wikiCode string, pageID int64) (review.PageResult, error) {
	evaluator, err := s.evaluatorFor(ctx, wikiCode)
	if err != nil {
		return review.PageResult{}, err
	}
	return evaluator.EvaluatePage(ctx, wikiCode, pageID)
}

func (s *reviewService) EvaluatePages(ctx context.Context, wikiCode string, pageIDs []int64) ([]review.PageResult, error) {
	evaluator, err := s.evaluatorFor(ctx, wikiCode)
	if err != nil {
		return nil, err
	}
	return evaluator.EvaluatePages(ctx, wikiCode, pageIDs, s.concurrency)
}

func (s *reviewService) Checks() []review.Registration {
	return review.Registry()
}

// evaluatorFor returns the wiki's page evaluator, building it on first
// use. Redirect aliases are resolved before evaluation so the stored
// configuration the evaluator reads is complete.
func (s *reviewService) evaluatorFor(ctx context.Context, wikiCode string) (*review.PageEvaluator, error) {
	wiki, err := s.wikis.Get(wikiCode)
	if err != nil {
		return nil, err
	}

	s.configuration.EnsureRedirectAliases(ctx, wiki)

	s.mu.Lock()
	defer s.mu.Unlock()
	if evaluator, ok := s.evaluators[wikiCode]; ok {
		return evaluator, nil
	}

	// Caches are per wiki: revision ids are only unique within one wiki.
	deps := &review.Dependencies{
		Scores:        s.scores,
		WikiAPI:       s.wikiAPI(wiki),
		History:       s.history,
		ScoreCache:    cache.New[float64](s.cacheTTL, s.cacheSize),
		TextCache:     cache.New[string](s.cacheTTL, s.cacheSize),
		LookupCache:   cache.New[bool](s.cacheTTL, s.cacheSize),
		ORESCache:     cache.New[clients.ORESScores](s.cacheTTL, s.cacheSize),
		ReviewedCache: cache.New[[]models.ReviewedContent](s.cacheTTL, s.cacheSize),
		Logger:        s.logger,
	}
	evaluator := review.NewPageEvaluator(s.wikis, s.configs, s.revisions, s.profiles, deps, s.logger)
	s.evaluators[wikiCode] = evaluator
	return evaluator, nil
}

var _ ReviewService = (*reviewService)(nil)

// scoreService combines the Lift Wing and ORES clients behind the
// review engine's score interface.
type scoreService struct {
	liftWing *clients.LiftWing
	ores     *clients.ORES
}

// NewScoreService wraps the two scoring clients.
func NewScoreService(liftWing *clients.LiftWing, ores *clients.ORES) review.ScoreService {
	return &scoreService{liftWing: liftWing, ores: ores}
}

func (s *scoreService) FetchScore(ctx context.Context, revID int64, lang, project, modelType string) (float64, error) {
	return s.liftWing.FetchScore(ctx, revID, lang, project, modelType)
}

func (s *scoreService) FetchORESScores(ctx context.Context, code, family string, revID int64, damaging, goodfaith bool) (clients.ORESScores, error) {
	return s.ores.FetchScores(ctx, code, family, revID, damaging, goodfaith)
}

var _ review.ScoreService = (*scoreService)(nil)
