package wikitext

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	refTagRe  = regexp.MustCompile(`(?is)<ref(?:\s+[^>]*)?>(?:.*?)</ref>|<ref(?:\s+[^>]*)?/>`)
	refNameRe = regexp.MustCompile(`(?i)<ref[^>]*\bname\s*=\s*["']?([^"'\s>/]+)`)
	urlRe     = regexp.MustCompile(`(?i)https?://[^\s\]<>"'|{}]+(?:\([^\s)]*\))?`)
)

// ExtractReferences returns every <ref> tag in text, including
// self-closing ones, in document order.
func ExtractReferences(text string) []string {
	if text == "" {
		return nil
	}
	return refTagRe.FindAllString(text, -1)
}

// StripReferences removes every <ref> tag from text.
func StripReferences(text string) string {
	if text == "" {
		return ""
	}
	return refTagRe.ReplaceAllString(text, "")
}

// IsReferenceOnlyEdit reports whether the pending revision only adds or
// modifies references. Edits that change non-reference content, touch
// no references at all, or remove any existing reference do not
// qualify. A named reference counts as modified, not removed, while a
// reference with the same name is still present.
func IsReferenceOnlyEdit(parent, pending string) bool {
	if pending == "" {
		return false
	}

	parentStripped := whitespaceRe.ReplaceAllString(StripReferences(parent), " ")
	pendingStripped := whitespaceRe.ReplaceAllString(StripReferences(pending), " ")
	if strings.TrimSpace(parentStripped) != strings.TrimSpace(pendingStripped) {
		return false
	}

	parentRefs := ExtractReferences(parent)
	pendingRefs := ExtractReferences(pending)
	if len(parentRefs) == 0 && len(pendingRefs) == 0 {
		return false
	}

	pendingSet := make(map[string]bool, len(pendingRefs))
	pendingNames := make(map[string]bool, len(pendingRefs))
	for _, ref := range pendingRefs {
		pendingSet[ref] = true
		if name := refName(ref); name != "" {
			pendingNames[name] = true
		}
	}

	for _, ref := range parentRefs {
		if pendingSet[ref] {
			continue
		}
		if name := refName(ref); name != "" && pendingNames[name] {
			continue
		}
		// A parent reference vanished without a named replacement.
		return false
	}
	return true
}

// refName returns the value of a reference tag's name attribute, or "".
func refName(ref string) string {
	match := refNameRe.FindStringSubmatch(ref)
	if match == nil {
		return ""
	}
	return strings.ToLower(match[1])
}

// ExtractURLsFromReferences collects http(s) URLs found inside reference
// tags, with trailing punctuation trimmed.
func ExtractURLsFromReferences(references []string) []string {
	var urls []string
	for _, ref := range references {
		for _, match := range urlRe.FindAllString(ref, -1) {
			urls = append(urls, strings.TrimRight(match, ".,;:!?}"))
		}
	}
	return urls
}

// DomainFromURL returns the lowercased host of rawURL without a leading
// www. prefix, or "" when the URL cannot be parsed.
func DomainFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	domain := strings.ToLower(parsed.Host)
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}
