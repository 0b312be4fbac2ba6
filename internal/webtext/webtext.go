// Package webtext turns HTML fragments and pages into plain text for prompts.
package webtext

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	tagRe   = regexp.MustCompile(`<[^>]+>`)
)

// PlainText strips markup from a short fragment such as a search snippet
// ("<b>Go</b> is fast") and collapses whitespace. Text without markup is
// only whitespace-normalised.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return collapse(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(tagRe.ReplaceAllString(s, " "))
	}
	doc.Find("script, style, noscript").Remove()
	return collapse(doc.Text())
}

// LooksLikeHTML reports whether s is a full HTML document rather than text
// that merely contains a tag or two.
func LooksLikeHTML(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}

// ReadableText extracts the main article text from an HTML page. When
// readability finds nothing useful it falls back to the page's visible text.
func ReadableText(html string) string {
	article, err := readability.FromReader(strings.NewReader(html), &url.URL{})
	if err == nil {
		if text := collapse(article.TextContent); text != "" {
			return text
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(tagRe.ReplaceAllString(html, " "))
	}
	doc.Find("header, nav, footer, aside, script, style, noscript, svg, form").Remove()
	return collapse(doc.Find("body").Text())
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
