package wikitext

import (
	"regexp"
	"strings"
)

// BlockingCategoryHits returns the configured names of blocking
// categories the revision belongs to. blockingLookup maps casefolded
// category names to their configured display names.
func BlockingCategoryHits(categories []string, blockingLookup map[string]string) []string {
	if len(blockingLookup) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var hits []string
	for _, category := range categories {
		name, ok := blockingLookup[strings.ToLower(category)]
		if ok && !seen[name] {
			seen[name] = true
			hits = append(hits, name)
		}
	}
	return hits
}

// CountCategoryLinks counts [[Category:...]] links in wikitext. aliases
// adds localized namespace names; "Category" is always recognized.
func CountCategoryLinks(text string, aliases []string) int {
	if text == "" {
		return 0
	}

	names := []string{regexp.QuoteMeta("Category")}
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias != "" && !strings.EqualFold(alias, "Category") {
			names = append(names, regexp.QuoteMeta(alias))
		}
	}

	re, err := regexp.Compile(`(?i)\[\[\s*(` + strings.Join(names, "|") + `)\s*:[^\]]*\]\]`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}
