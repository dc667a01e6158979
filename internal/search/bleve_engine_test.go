//go:build bleve

package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/storage"
)

func TestBleveEngineIndexesAndSearches(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveEntries([]*storage.Entry{
		{ID: "app:terminal", Kind: "app", Title: "Terminal", Keywords: []string{"shell", "console"}},
		{ID: "util:ip", Kind: "utility", Title: "IP", Subtitle: "Show local and public addresses"},
	}))

	idxPath := filepath.Join(dir, "index.bleve")
	eng, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	res, err := eng.Search("term", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	require.Equal(t, "app:terminal", res[0].Entry.ID)

	res, err = eng.Search("console", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)

	n, err := eng.DocCount()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	catalog := IndexedCatalog{Store: store, Searcher: eng}
	require.NoError(t, catalog.DeleteEntry("util:ip"))
	n, err = eng.DocCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestBleveEngineKeepsIndexAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	idxPath := filepath.Join(dir, "index.bleve")
	eng, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)

	catalog := IndexedCatalog{Store: store, Searcher: eng}
	require.NoError(t, catalog.SaveEntries([]*storage.Entry{
		{ID: "app:terminal", Kind: "app", Title: "Terminal"},
	}))
	res, err := eng.Search("terminal", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NoError(t, eng.Close())

	// written behind the index's back, so only Reindex picks it up
	require.NoError(t, store.SaveEntries([]*storage.Entry{
		{ID: "app:editor", Kind: "app", Title: "Editor"},
	}))

	eng, err = NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	n, err := eng.DocCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, eng.Reindex())
	n, err = eng.DocCount()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
