package wikitext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CountRenderErrors returns the number of elements carrying the "error"
// class in rendered HTML. MediaWiki marks failed template and parser
// function expansions with that class.
func CountRenderErrors(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}
	return doc.Find(".error").Length(), nil
}
