package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStore_Load_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := store.NewJSONStore(filepath.Join(dir, "bookmarks.json"))

	index, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, index)
}

func TestJSONStore_Load_Corrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	s := store.NewJSONStore(path)

	_, err := s.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, bogrep.EINDEX, bogrep.ErrorCode(err))
}

func TestJSONStore_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.json")
	s := store.NewJSONStore(path)

	now := time.Now().UTC().Truncate(time.Second)
	index := []*bogrep.TargetBookmark{
		{
			ID:           "id-1",
			URL:          "https://example.com/a",
			Sources:      []bogrep.SourceDescriptor{{Kind: bogrep.SourceKindInternal}},
			LastImported: now,
			Status:       bogrep.StatusAdded,
			Action:       bogrep.ActionNone,
		},
	}

	require.NoError(t, s.Save(context.Background(), index))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bogrep.ID("id-1"), got[0].ID)
	assert.Equal(t, "https://example.com/a", got[0].URL)
	assert.True(t, got[0].LastImported.Equal(now))
}

func TestJSONStore_Save_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.json")
	s := store.NewJSONStore(path)

	now := time.Now().UTC().Truncate(time.Second)
	index := []*bogrep.TargetBookmark{
		{ID: "id-2", URL: "https://example.com/b", LastImported: now, Status: bogrep.StatusAdded},
		{ID: "id-1", URL: "https://example.com/a", LastImported: now, Status: bogrep.StatusAdded},
	}

	require.NoError(t, s.Save(context.Background(), index))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), index))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestJSONStore_Save_NoTempFileLeftBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.json")
	s := store.NewJSONStore(path)

	require.NoError(t, s.Save(context.Background(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bookmarks.json", entries[0].Name())
}
