package wikitext

import (
	"regexp"
	"strings"
)

var (
	refPairRe      = regexp.MustCompile(`(?is)<ref[^>]*>.*?</ref>`)
	refSelfCloseRe = regexp.MustCompile(`(?i)<ref[^>]*/>`)
	templateRe     = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	htmlCommentRe  = regexp.MustCompile(`(?s)<!--.*?-->`)
	categoryLinkRe = regexp.MustCompile(`(?i)\[\[Category:[^\]]+\]\]`)
	fileLinkRe     = regexp.MustCompile(`(?i)\[\[(File|Image):[^\]]+\]\]`)
	pipedLinkRe    = regexp.MustCompile(`\[\[[^\]|]+\|([^\]]+)\]\]`)
	plainLinkRe    = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	boldItalicRe   = regexp.MustCompile(`'{2,}`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Normalize strips references, templates, comments, category and file
// links, link markup and bold/italic quotes, then collapses whitespace.
// Used before similarity comparison so formatting changes do not count
// as content changes.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = refPairRe.ReplaceAllString(text, "")
	text = refSelfCloseRe.ReplaceAllString(text, "")
	// Two passes to peel one level of nested templates.
	text = templateRe.ReplaceAllString(text, "")
	text = templateRe.ReplaceAllString(text, "")
	text = htmlCommentRe.ReplaceAllString(text, "")
	text = categoryLinkRe.ReplaceAllString(text, "")
	text = fileLinkRe.ReplaceAllString(text, "")
	text = pipedLinkRe.ReplaceAllString(text, "$1")
	text = plainLinkRe.ReplaceAllString(text, "$1")
	text = boldItalicRe.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ExtractAdditions returns the text spans present in pending but not in
// parent. Whitespace-only spans are dropped.
func ExtractAdditions(parent, pending string) []string {
	if pending == "" {
		return nil
	}
	if parent == "" {
		return []string{pending}
	}

	pendingRunes := []rune(pending)
	var additions []string
	for _, op := range OpCodes(parent, pending) {
		if op.Tag != "insert" && op.Tag != "replace" {
			continue
		}
		added := string(pendingRunes[op.J1:op.J2])
		if strings.TrimSpace(added) != "" {
			additions = append(additions, added)
		}
	}
	return additions
}
