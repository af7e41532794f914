// Package extract provides the default link extractor: a best-effort
// goquery-based parser that walks anchor tags and resolves them against a
// base URL. The extractor contract itself is an external collaborator;
// this is one concrete, swappable implementation of it.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor pulls outbound hyperlinks out of an HTML document.
type Extractor interface {
	// Extract returns absolute URLs found in body, resolved against base.
	// Extraction is best-effort: malformed HTML never returns an error,
	// only an empty or partial link list.
	Extract(body []byte, base string) []string
}

// Links is the default, goquery-backed Extractor.
type Links struct{}

// NewLinks returns the default link extractor.
func NewLinks() *Links {
	return &Links{}
}

func (l *Links) Extract(body []byte, base string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		resolved := baseURL.ResolveReference(ref)
		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	return links
}
