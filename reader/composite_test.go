package reader_test

import (
	"context"
	"testing"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/mock"
	"github.com/fwojciec/bogrep/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_Read_MergesAndDedupes(t *testing.T) {
	t.Parallel()

	readerA := &mock.Reader{
		CanReadFn: func(path string) bool { return path == "a.json" },
		ReadFn: func(ctx context.Context, src bogrep.Source) ([]bogrep.SourceBookmark, error) {
			return []bogrep.SourceBookmark{
				{URL: "https://example.com/a", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindChrome}},
				{URL: "https://example.com/shared", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindChrome}},
			}, nil
		},
	}
	readerB := &mock.Reader{
		CanReadFn: func(path string) bool { return path == "b.txt" },
		ReadFn: func(ctx context.Context, src bogrep.Source) ([]bogrep.SourceBookmark, error) {
			return []bogrep.SourceBookmark{
				{URL: "https://example.com/shared", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple}},
				{URL: "https://example.com/b", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple}},
			}, nil
		},
	}

	c := reader.NewComposite(readerA, readerB)
	got, err := c.Read(context.Background(), []bogrep.Source{{Path: "a.json"}, {Path: "b.txt"}})

	require.NoError(t, err)
	var urls []string
	for _, b := range got {
		urls = append(urls, b.URL)
	}
	assert.ElementsMatch(t, []string{
		"https://example.com/a",
		"https://example.com/shared",
		"https://example.com/b",
	}, urls)
}

func TestComposite_Read_NoReaderForSource(t *testing.T) {
	t.Parallel()

	c := reader.NewComposite(&mock.Reader{CanReadFn: func(string) bool { return false }})

	_, err := c.Read(context.Background(), []bogrep.Source{{Path: "unknown.ext"}})

	require.Error(t, err)
	assert.Equal(t, bogrep.ESOURCE, bogrep.ErrorCode(err))
}
