package wikitext

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	refOpenRe   = regexp.MustCompile(`(?i)<ref\b`)
	refCloseRe  = regexp.MustCompile(`(?i)</ref>`)
	refBareRe   = regexp.MustCompile(`(?i)\bref>`)
	divOpenRe   = regexp.MustCompile(`(?i)<div\b`)
	divCloseRe  = regexp.MustCompile(`(?i)</div>`)
	divBareRe   = regexp.MustCompile(`(?i)\bdiv>`)
	spanOpenRe  = regexp.MustCompile(`(?i)<span\b`)
	spanCloseRe = regexp.MustCompile(`(?i)</span>`)
	spanBareRe  = regexp.MustCompile(`(?i)\bspan>`)

	mathSignalRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)class="[^"]*math[^"]*"`),
		regexp.MustCompile(`(?i)<math`),
		regexp.MustCompile(`\\`),
		regexp.MustCompile(`\$`),
	}
)

// mediaKeywords maps language codes to localized File/Image/Category
// keywords used to spot unresolved media and category syntax in rendered
// HTML.
var mediaKeywords = map[string][]string{
	"en": {"File", "Image", "Category"},
	"de": {"Datei", "Bild", "Kategorie"},
	"fr": {"Fichier", "Image", "Catégorie"},
	"es": {"Archivo", "Imagen", "Categoría"},
	"it": {"File", "Immagine", "Categoria"},
	"pt": {"Ficheiro", "Imagem", "Categoria"},
	"pl": {"Plik", "Grafika", "Kategoria"},
	"ru": {"Файл", "Изображение", "Категория"},
	"ja": {"ファイル", "画像", "カテゴリ"},
	"zh": {"文件", "图像", "分类"},
}

// LocalizedMediaKeywords returns the File/Image/Category keywords for a
// language, falling back to English.
func LocalizedMediaKeywords(lang string) []string {
	if keywords, ok := mediaKeywords[lang]; ok {
		return keywords
	}
	return mediaKeywords["en"]
}

// IsMathArticle reports whether the rendered HTML looks math-heavy.
// Math pages legitimately contain == in formulas, so the heading-marker
// indicator is suppressed for them.
func IsMathArticle(html string) bool {
	if html == "" {
		return false
	}
	for _, re := range mathSignalRes {
		if re.MatchString(html) {
			return true
		}
	}
	return false
}

// DetectBrokenMarkupIndicators counts wikitext fragments that leaked into
// rendered HTML, keyed by indicator token.
func DetectBrokenMarkupIndicators(html, lang string) map[string]int {
	if html == "" {
		return map[string]int{}
	}

	indicators := map[string]int{
		"{{":     strings.Count(html, "{{"),
		"}}":     strings.Count(html, "}}"),
		"[[":     strings.Count(html, "[["),
		"]]":     strings.Count(html, "]]"),
		"<ref":   len(refOpenRe.FindAllStringIndex(html, -1)),
		"</ref":  len(refCloseRe.FindAllStringIndex(html, -1)),
		"ref>":   len(refBareRe.FindAllStringIndex(html, -1)),
		"<div":   len(divOpenRe.FindAllStringIndex(html, -1)),
		"</div":  len(divCloseRe.FindAllStringIndex(html, -1)),
		"div>":   len(divBareRe.FindAllStringIndex(html, -1)),
		"<span":  len(spanOpenRe.FindAllStringIndex(html, -1)),
		"</span": len(spanCloseRe.FindAllStringIndex(html, -1)),
		"span>":  len(spanBareRe.FindAllStringIndex(html, -1)),
	}

	for _, keyword := range LocalizedMediaKeywords(lang) {
		token := "[" + keyword + ":"
		indicators[token] = strings.Count(strings.ToLower(html), strings.ToLower(token))
	}

	if !IsMathArticle(html) {
		indicators["=="] = strings.Count(html, "==")
	}

	return indicators
}

// NewIndicators returns the indicators whose count increased from parent
// to current, with the increase as value.
func NewIndicators(current, parent map[string]int) map[string]int {
	increased := make(map[string]int)
	for token, count := range current {
		if count > parent[token] {
			increased[token] = count - parent[token]
		}
	}
	return increased
}

// EvaluateBrokenMarkup applies the noise heuristics to the increased
// indicator counts: a single indicator type below three occurrences is
// treated as noise; two or more distinct types, or one type at three or
// more, is reported as likely broken markup.
func EvaluateBrokenMarkup(newIndicators map[string]int) (bool, string) {
	var tokens []string
	for token, count := range newIndicators {
		if count > 0 {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return false, ""
	}
	sort.Strings(tokens)

	if len(tokens) == 1 && newIndicators[tokens[0]] < 3 {
		return false, ""
	}

	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		parts = append(parts, fmt.Sprintf("%s: %d", token, newIndicators[token]))
	}
	return true, "Introduced broken wikicode: " + strings.Join(parts, ", ")
}
