package text_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/render/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>The Article Title</title></head>
<body>
<header><nav><a href="/">Home</a> <a href="/about">About</a></nav></header>
<main>
<article>
<h1>The Article Title</h1>
<p>This is the first paragraph of the article body, long enough that an
extractor recognizes it as the main content of the page rather than
boilerplate navigation or footer text.</p>
<p>This is the second paragraph, which continues the article with more
substance so the readable-text pass has something to preserve across a
paragraph break.</p>
</article>
</main>
<footer>Copyright notice that should not dominate the extraction.</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	e := text.NewExtractor()

	got, err := e.Extract(articleHTML)
	require.NoError(t, err)

	content := string(got.Content)
	assert.Contains(t, content, "first paragraph")
	assert.Contains(t, content, "second paragraph")
	assert.NotContains(t, content, "<p>")
	assert.Equal(t, content, strings.TrimSpace(content))
}

func TestExtractor_Extract_EmptyInput(t *testing.T) {
	t.Parallel()

	e := text.NewExtractor()

	_, err := e.Extract("  \n ")
	require.Error(t, err)
	assert.Equal(t, bogrep.EINVALID, bogrep.ErrorCode(err))
}
