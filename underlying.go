package bogrep

import (
	"net/url"

	"github.com/fwojciec/bogrep/render/goquery"
)

// Closed whitelist of hosts the underlying rewriter is allowed to
// expand: Hacker News item pages link out to the article; Reddit posts
// link out to the linked page.
var (
	hackerNewsDomains = map[string]struct{}{
		"news.ycombinator.com":     {},
		"www.news.ycombinator.com": {},
	}
	redditDomains = map[string]struct{}{
		"reddit.com":     {},
		"www.reddit.com": {},
	}
)

// ClassifyUnderlying reports which whitelist, if any, rawURL's host
// belongs to. It does not fetch or parse the page; it only decides
// whether the rewriter should be consulted at all.
func ClassifyUnderlying(rawURL string) UnderlyingType {
	u, err := url.Parse(rawURL)
	if err != nil {
		return UnderlyingNone
	}
	if _, ok := hackerNewsDomains[u.Host]; ok {
		return UnderlyingHackerNews
	}
	if _, ok := redditDomains[u.Host]; ok {
		return UnderlyingReddit
	}
	return UnderlyingNone
}

var _ UnderlyingRewriter = (*Rewriter)(nil)

// Rewriter implements UnderlyingRewriter for the closed Hacker
// News/Reddit whitelist, extracting the outbound link from a fetched
// page via goquery selectors.
type Rewriter struct{}

// NewRewriter creates a Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Rewrite computes the underlying URL for a fetched page, if sourceURL
// belongs to a whitelisted host and the page contains the expected
// outbound link. Rewrite is stable: the same input HTML always selects
// the same link.
func (r *Rewriter) Rewrite(sourceURL string, html []byte) (string, UnderlyingType, bool) {
	switch ClassifyUnderlying(sourceURL) {
	case UnderlyingHackerNews:
		if href, ok := goquery.SelectHackerNewsLink(html); ok {
			return href, UnderlyingHackerNews, true
		}
	case UnderlyingReddit:
		if href, ok := goquery.SelectRedditLink(html); ok {
			return href, UnderlyingReddit, true
		}
	}
	return "", UnderlyingNone, false
}
