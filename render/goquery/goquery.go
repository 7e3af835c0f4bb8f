// Package goquery provides HTML selection helpers built on
// PuerkitoBio/goquery: picking the outbound link off a Hacker News or
// Reddit page for the underlying-URL rewriter, and sniffing whether a
// response body is text/HTML at all before it reaches the renderer.
package goquery

import (
	"bytes"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// SelectHackerNewsLink returns the article link a Hacker News item page
// points to, selected from its `.titleline > a` markup.
func SelectHackerNewsLink(html []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", false
	}
	href, ok := doc.Find(".titleline > a").First().Attr("href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

// SelectRedditLink returns the external link a Reddit post page points
// to, if the post is a link post rather than a self/text post.
func SelectRedditLink(html []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", false
	}
	href, ok := doc.Find(`a[slot="outbound-link"], a[data-testid="outbound-link"]`).First().Attr("href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

// LooksLikeHTML reports whether body sniffs as HTML, used for responses
// that arrive without a declared content type.
func LooksLikeHTML(body []byte) bool {
	sniffed := http.DetectContentType(body)
	return bytes.HasPrefix([]byte(sniffed), []byte("text/html"))
}
