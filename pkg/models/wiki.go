package models

import "time"

// ML model type constants for WikiConfiguration.MLModelType.
const (
	ModelRevertRiskLanguageAgnostic = "revertrisk_language_agnostic"
	ModelRevertRiskMultilingual     = "revertrisk_multilingual"
	ModelDamaging                   = "damaging"
	ModelGoodfaith                  = "goodfaith"
	ModelArticleQuality             = "articlequality"
	ModelArticleTopic               = "articletopic"
)

// Wiki identifies a single wiki (tenant) whose pending changes are reviewed.
type Wiki struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Family      string `json:"family"`
	APIEndpoint string `json:"api_endpoint"`
}

// WikiConfiguration is the per-wiki review policy: which checks run, which
// editor groups bypass review, which categories block, and the ML thresholds.
type WikiConfiguration struct {
	WikiCode string `json:"wiki_code"`

	// EnabledChecks lists check ids in evaluation order. Empty means all
	// registered checks in their default order.
	EnabledChecks []string `json:"enabled_checks"`

	AutoApprovedGroups []string `json:"auto_approved_groups"`
	BlockingCategories []string `json:"blocking_categories"`

	// RedirectAliases caches the redirect magic-word aliases fetched from the
	// wiki's siteinfo API. Refreshed lazily on miss.
	RedirectAliases []string `json:"redirect_aliases"`

	// CategoryAliases are the localized category namespace names, e.g.
	// Luokka on fiwiki. "Category" always counts.
	CategoryAliases []string `json:"category_aliases"`

	MLModelType      string  `json:"ml_model_type"`
	MLModelThreshold float64 `json:"ml_model_threshold"`

	ORESDamagingThreshold  float64 `json:"ores_damaging_threshold"`
	ORESGoodfaithThreshold float64 `json:"ores_goodfaith_threshold"`

	// SupersededSimilarityThreshold: additions whose significant-match ratio
	// against the stable text falls below this are considered superseded.
	SupersededSimilarityThreshold float64 `json:"superseded_similarity_threshold"`

	// BrokenMarkupBlocks controls whether the broken-markup check blocks
	// (true) or only reports an advisory result (false).
	BrokenMarkupBlocks bool `json:"broken_markup_blocks"`

	UpdatedAt time.Time `json:"updated_at"`
}
