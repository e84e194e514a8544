// Package services wires the stores, clients, and the review engine
// into the operations the HTTP layer exposes.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/review"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/stores"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/wikitext"
)

// AliasSource fetches a wiki's redirect magic-word aliases.
type AliasSource interface {
	RedirectAliases(ctx context.Context) ([]string, error)
}

// AliasSourceFactory builds an AliasSource for one wiki.
type AliasSourceFactory func(wiki models.Wiki) AliasSource

var knownModelTypes = map[string]bool{
	models.ModelRevertRiskLanguageAgnostic: true,
	models.ModelRevertRiskMultilingual:     true,
	models.ModelDamaging:                   true,
	models.ModelGoodfaith:                  true,
	models.ModelArticleQuality:             true,
	models.ModelArticleTopic:               true,
}

// ConfigurationService validates and stores per-wiki review policies.
type ConfigurationService interface {
	Get(wikiCode string) (models.WikiConfiguration, error)
	Save(config models.WikiConfiguration) error

	// EnsureRedirectAliases returns the wiki's redirect aliases,
	// fetching and caching them on first use. A fetch failure falls
	// back to the per-language defaults without caching.
	EnsureRedirectAliases(ctx context.Context, wiki models.Wiki) []string
}

type configurationService struct {
	configs *stores.ConfigStore
	aliases AliasSourceFactory
	logger  *zap.Logger
}

// NewConfigurationService creates a configuration service backed by the
// given store.
func NewConfigurationService(configs *stores.ConfigStore, aliases AliasSourceFactory, logger *zap.Logger) ConfigurationService {
	return &configurationService{
		configs: configs,
		aliases: aliases,
		logger:  logger.Named("configuration"),
	}
}

func (s *configurationService) Get(wikiCode string) (models.WikiConfiguration, error) {
	return s.configs.Get(wikiCode)
}

// Save validates the configuration before storing it. Unknown check
// ids, unknown model types, and thresholds outside [0,1] are rejected.
func (s *configurationService) Save(config models.WikiConfiguration) error {
	if config.WikiCode == "" {
		return fmt.Errorf("configuration has no wiki code: %w", apperrors.ErrNotFound)
	}

	if _, err := review.EnabledChecks(config); err != nil {
		return err
	}

	if config.MLModelType != "" && !knownModelTypes[config.MLModelType] {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownModel, config.MLModelType)
	}

	for name, value := range map[string]float64{
		"ml_model_threshold":              config.MLModelThreshold,
		"ores_damaging_threshold":         config.ORESDamagingThreshold,
		"ores_goodfaith_threshold":        config.ORESGoodfaithThreshold,
		"superseded_similarity_threshold": config.SupersededSimilarityThreshold,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%w: %s = %v", apperrors.ErrInvalidThreshold, name, value)
		}
	}

	s.configs.Save(config)
	return nil
}

func (s *configurationService) EnsureRedirectAliases(ctx context.Context, wiki models.Wiki) []string {
	if config, err := s.configs.Get(wiki.Code); err == nil && len(config.RedirectAliases) > 0 {
		return config.RedirectAliases
	}

	aliases, err := s.aliases(wiki).RedirectAliases(ctx)
	if err != nil || len(aliases) == 0 {
		s.logger.Warn("falling back to default redirect aliases",
			zap.String("wiki", wiki.Code), zap.Error(err))
		return wikitext.FallbackRedirectAliases(wiki.Code)
	}

	s.configs.SetRedirectAliases(wiki.Code, aliases)
	return aliases
}

var _ ConfigurationService = (*configurationService)(nil)
