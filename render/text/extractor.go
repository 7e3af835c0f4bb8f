// Package text extracts readable plaintext from an HTML page, trying
// go-trafilatura first and falling back to go-readability when
// trafilatura yields empty content.
package text

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/bogrep"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns its title and readable text,
// with paragraph breaks preserved and whitespace trimmed.
func (e *Extractor) Extract(rawHTML string) (*bogrep.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, bogrep.Errorf(bogrep.EINVALID, "empty HTML input")
	}

	title, contentHTML, err := extractTrafilatura(rawHTML)
	if err != nil || strings.TrimSpace(contentHTML) == "" {
		title, contentHTML, err = extractReadability(rawHTML)
		if err != nil {
			return nil, bogrep.WrapOp("text.Extract", bogrep.Errorf(bogrep.ERENDER, "%v", err))
		}
	}

	return &bogrep.ExtractResult{
		Title:   title,
		Content: []byte(htmlToText(contentHTML)),
	}, nil
}

func extractTrafilatura(rawHTML string) (title, contentHTML string, err error) {
	opts := trafilatura.Options{EnableFallback: true}
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", "", err
	}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return "", "", err
		}
		contentHTML = buf.String()
	}
	return result.Metadata.Title, contentHTML, nil
}

func extractReadability(rawHTML string) (title, contentHTML string, err error) {
	// Extract has no page URL in scope; relative links resolve against a
	// placeholder base.
	base := &url.URL{Scheme: "https", Host: "localhost"}
	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return "", "", err
	}
	return article.Title, article.Content, nil
}

// htmlToText strips tags, preserving paragraph breaks as blank lines and
// trimming surrounding whitespace from the result.
func htmlToText(contentHTML string) string {
	doc, err := html.Parse(strings.NewReader(contentHTML))
	if err != nil {
		return strings.TrimSpace(contentHTML)
	}

	var b strings.Builder
	var walk func(*html.Node)
	blockTags := map[string]bool{
		"p": true, "div": true, "br": true, "li": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	}
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					last := b.String()[b.Len()-1]
					if last != '\n' && last != ' ' {
						b.WriteByte(' ')
					}
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteString("\n\n")
		}
	}
	walk(doc)

	lines := strings.Split(b.String(), "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
