package bogrep_test

import (
	"testing"

	"github.com/fwojciec/bogrep"
	"github.com/stretchr/testify/assert"
)

func TestClassifyUnderlying(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bogrep.UnderlyingType
	}{
		{"https://news.ycombinator.com/item?id=1", bogrep.UnderlyingHackerNews},
		{"https://www.news.ycombinator.com/item?id=1", bogrep.UnderlyingHackerNews},
		{"https://reddit.com/r/golang/comments/1", bogrep.UnderlyingReddit},
		{"https://www.reddit.com/r/golang/comments/1", bogrep.UnderlyingReddit},
		{"https://example.com/a", bogrep.UnderlyingNone},
		{"not a url", bogrep.UnderlyingNone},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bogrep.ClassifyUnderlying(tt.url))
		})
	}
}

func TestRewriter_Rewrite(t *testing.T) {
	t.Parallel()

	r := bogrep.NewRewriter()

	t.Run("hacker news", func(t *testing.T) {
		t.Parallel()
		html := []byte(`<html><body><span class="titleline"><a href="https://blog.example.com/post">Title</a></span></body></html>`)
		url, kind, ok := r.Rewrite("https://news.ycombinator.com/item?id=1", html)
		assert.True(t, ok)
		assert.Equal(t, bogrep.UnderlyingHackerNews, kind)
		assert.Equal(t, "https://blog.example.com/post", url)
	})

	t.Run("reddit", func(t *testing.T) {
		t.Parallel()
		html := []byte(`<html><body><a data-testid="outbound-link" href="https://blog.example.com/post2">Link</a></body></html>`)
		url, kind, ok := r.Rewrite("https://reddit.com/r/golang/comments/1", html)
		assert.True(t, ok)
		assert.Equal(t, bogrep.UnderlyingReddit, kind)
		assert.Equal(t, "https://blog.example.com/post2", url)
	})

	t.Run("not whitelisted", func(t *testing.T) {
		t.Parallel()
		_, kind, ok := r.Rewrite("https://example.com/a", []byte(`<html></html>`))
		assert.False(t, ok)
		assert.Equal(t, bogrep.UnderlyingNone, kind)
	})

	t.Run("no matching link is stable across calls", func(t *testing.T) {
		t.Parallel()
		html := []byte(`<html><body>no links here</body></html>`)
		_, _, ok1 := r.Rewrite("https://news.ycombinator.com/item?id=2", html)
		_, _, ok2 := r.Rewrite("https://news.ycombinator.com/item?id=2", html)
		assert.False(t, ok1)
		assert.Equal(t, ok1, ok2)
	})
}
