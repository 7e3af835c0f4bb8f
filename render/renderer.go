// Package render dispatches a fetched response to the appropriate
// content transformer for the bookmark's cache mode.
package render

import (
	"bytes"
	"unicode/utf8"

	"github.com/fwojciec/bogrep"
)

// MarkdownConverter converts HTML into Markdown.
type MarkdownConverter interface {
	Convert(html string) (string, error)
}

// TextExtractor extracts readable plaintext and a title from HTML.
type TextExtractor interface {
	Extract(html string) (*bogrep.ExtractResult, error)
}

var _ bogrep.Renderer = (*Renderer)(nil)

// Renderer implements bogrep.Renderer, dispatching by cache mode. It is a
// pure function of its inputs: the same response and mode always
// produce the same output.
type Renderer struct {
	markdown MarkdownConverter
	text     TextExtractor
}

// New creates a Renderer.
func New(markdown MarkdownConverter, text TextExtractor) *Renderer {
	return &Renderer{markdown: markdown, text: text}
}

// Render converts resp.Body to the bytes persisted for mode.
func (r *Renderer) Render(mode bogrep.CacheMode, resp *bogrep.Response) (*bogrep.ExtractResult, error) {
	switch mode {
	case bogrep.CacheModeHTML:
		return &bogrep.ExtractResult{Content: toValidUTF8(resp.Body)}, nil
	case bogrep.CacheModeMarkdown:
		md, err := r.markdown.Convert(string(resp.Body))
		if err != nil {
			return nil, bogrep.WrapOp("render.Render", bogrep.Errorf(bogrep.ERENDER, "%v", err))
		}
		return &bogrep.ExtractResult{Content: []byte(md)}, nil
	case bogrep.CacheModeText:
		result, err := r.text.Extract(string(resp.Body))
		if err != nil {
			return nil, bogrep.WrapOp("render.Render", bogrep.Errorf(bogrep.ERENDER, "%v", err))
		}
		return result, nil
	default:
		return nil, bogrep.Errorf(bogrep.EINVALID, "unknown cache mode %q", mode)
	}
}

// toValidUTF8 returns data unchanged if it is valid UTF-8, otherwise a
// lossily-decoded copy, per the html mode's "invalid bytes -> lossy
// decode" rule.
func toValidUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte("�"))
}
