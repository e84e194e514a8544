package wikitext

import (
	"regexp"
	"strings"
)

// languageFallbackAliases covers wikis whose redirect magic words could
// not be fetched from siteinfo.
var languageFallbackAliases = map[string][]string{
	"de": {"#WEITERLEITUNG", "#REDIRECT"},
	"en": {"#REDIRECT"},
	"pl": {"#PATRZ", "#PRZEKIERUJ", "#TAM", "#REDIRECT"},
	"fi": {"#OHJAUS", "#UUDELLEENOHJAUS", "#REDIRECT"},
}

// FallbackRedirectAliases returns hardcoded redirect aliases for a wiki
// language code, defaulting to #REDIRECT.
func FallbackRedirectAliases(lang string) []string {
	if aliases, ok := languageFallbackAliases[lang]; ok {
		return aliases
	}
	return []string{"#REDIRECT"}
}

// IsRedirect reports whether wikitext starts with a redirect directive
// targeting a wiki link, using the given alias list (leading # optional
// in aliases, matching is case-insensitive).
func IsRedirect(text string, redirectAliases []string) bool {
	if text == "" || len(redirectAliases) == 0 {
		return false
	}

	var patterns []string
	for _, alias := range redirectAliases {
		alias = strings.TrimSpace(strings.TrimLeft(alias, "#"))
		if alias != "" {
			patterns = append(patterns, regexp.QuoteMeta(alias))
		}
	}
	if len(patterns) == 0 {
		return false
	}

	re, err := regexp.Compile(
		`(?i)^#[ \t]*(` + strings.Join(patterns, "|") + `)[ \t]*\[\[([^\]\n\r]+?)\]\]`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
