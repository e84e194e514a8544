// Package mlcompat holds the ML model / wiki language compatibility matrix.
//
// Sources:
//   - https://meta.wikimedia.org/wiki/Machine_learning_models/Production/Multilingual_revert_risk
//   - https://meta.wikimedia.org/wiki/Machine_learning_models/Production/Language-agnostic_revert_risk
//   - https://ores.wikimedia.org/v3/scores/
package mlcompat

import (
	"fmt"
	"strings"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
)

// multilingualRevertRiskLanguages: the 47 languages (plus simple) supported
// by the multilingual revert-risk model.
var multilingualRevertRiskLanguages = map[string]bool{
	"ar": true, "bg": true, "bn": true, "ca": true, "cs": true, "da": true,
	"de": true, "el": true, "en": true, "es": true, "et": true, "eu": true,
	"fa": true, "fi": true, "fr": true, "gl": true, "he": true, "hi": true,
	"hr": true, "hu": true, "hy": true, "id": true, "it": true, "ja": true,
	"ka": true, "ko": true, "lt": true, "lv": true, "mk": true, "ml": true,
	"ms": true, "my": true, "nl": true, "nn": true, "no": true, "pl": true,
	"pt": true, "ro": true, "ru": true, "simple": true, "sk": true,
	"sl": true, "sq": true, "sr": true, "sv": true, "ta": true, "th": true,
	"tr": true, "uk": true, "ur": true, "vi": true, "zh": true,
}

// oresLanguages: wikis with deployed ORES damaging/goodfaith models.
var oresLanguages = map[string]bool{
	"ar": true, "ca": true, "cs": true, "de": true, "en": true, "es": true,
	"et": true, "eu": true, "fa": true, "fi": true, "fr": true, "gl": true,
	"he": true, "hu": true, "id": true, "it": true, "ja": true, "ko": true,
	"nl": true, "no": true, "pl": true, "pt": true, "ro": true, "ru": true,
	"simple": true, "sq": true, "sr": true, "sv": true, "tr": true,
	"uk": true, "vi": true, "zh": true,
}

// IsCompatible reports whether modelType can score revisions on a wiki with
// the given content language.
func IsCompatible(modelType, lang string) bool {
	modelType = strings.ToLower(modelType)
	lang = strings.ToLower(lang)

	switch modelType {
	case models.ModelRevertRiskLanguageAgnostic, "revertrisk":
		// Language-agnostic revert risk covers every Wikipedia language.
		return true
	case models.ModelRevertRiskMultilingual:
		return multilingualRevertRiskLanguages[lang]
	case "ores_damaging", "ores_goodfaith":
		return oresLanguages[lang]
	case models.ModelDamaging, models.ModelGoodfaith:
		return multilingualRevertRiskLanguages[lang]
	case models.ModelArticleQuality, models.ModelArticleTopic:
		// Wiki-specific models need per-wiki verification; treat as
		// unsupported until that exists.
		return false
	}
	return false
}

// CompatibleModels lists the model types usable for a content language.
func CompatibleModels(lang string) []string {
	lang = strings.ToLower(lang)
	compatible := []string{models.ModelRevertRiskLanguageAgnostic}

	if multilingualRevertRiskLanguages[lang] {
		compatible = append(compatible, models.ModelRevertRiskMultilingual)
	}
	if oresLanguages[lang] {
		compatible = append(compatible, "ores_damaging", "ores_goodfaith")
	}
	if multilingualRevertRiskLanguages[lang] {
		compatible = append(compatible, models.ModelDamaging, models.ModelGoodfaith)
	}
	return compatible
}

// IncompatibilityReason explains why a model cannot be used with a language.
// Returns "" when the pair is compatible.
func IncompatibilityReason(modelType, lang string) string {
	if IsCompatible(modelType, lang) {
		return ""
	}

	modelType = strings.ToLower(modelType)
	lang = strings.ToLower(lang)

	switch modelType {
	case models.ModelRevertRiskMultilingual:
		return fmt.Sprintf(
			"Multilingual revert risk model does not support %q. It only supports 47 languages. Use language-agnostic revert risk instead.",
			lang)
	case "ores_damaging", "ores_goodfaith":
		return fmt.Sprintf(
			"ORES %s model does not support %q. Consider using Lift Wing models instead.",
			strings.TrimPrefix(modelType, "ores_"), lang)
	case models.ModelDamaging, models.ModelGoodfaith:
		return fmt.Sprintf(
			"Lift Wing %s model does not support %q. This model supports 47 languages.",
			modelType, lang)
	}
	return fmt.Sprintf("Model %q is not supported for language %q.", modelType, lang)
}
