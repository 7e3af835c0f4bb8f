package markdown_test

import (
	"testing"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/render/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	c := markdown.NewConverter()

	got, err := c.Convert(`<html><body><h1>Heading</h1><p>Some <strong>bold</strong> text.</p></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, got, "# Heading")
	assert.Contains(t, got, "**bold**")
}

func TestConverter_Convert_EmptyInput(t *testing.T) {
	t.Parallel()

	c := markdown.NewConverter()

	_, err := c.Convert("   ")
	require.Error(t, err)
	assert.Equal(t, bogrep.EINVALID, bogrep.ErrorCode(err))
}
