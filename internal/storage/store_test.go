package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/recency"
	"github.com/pders01/qlaunch/internal/result"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Entries(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveEntries([]*Entry{
		{ID: "app:terminal", Kind: "app", Title: "terminal", Target: "/usr/bin/xterm"},
		{ID: "app:browser", Kind: "app", Title: "Browser", Target: "/usr/bin/firefox"},
	}))

	got, err := store.GetEntry("app:terminal")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/xterm", got.Target)
	assert.False(t, got.UpdatedAt.IsZero())

	all, err := store.GetAllEntries()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Browser", all[0].Title, "sorted case-insensitively by title")

	require.NoError(t, store.DeleteEntry("app:browser"))
	_, err = store.GetEntry("app:browser")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Bookmarks(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveBookmark(&Bookmark{ID: "b2", Title: "Zig", URL: "https://ziglang.org"}))
	require.NoError(t, store.SaveBookmark(&Bookmark{ID: "b1", Title: "go.dev", URL: "https://go.dev", Tags: []string{"lang"}}))

	all, err := store.GetAllBookmarks()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "go.dev", all[0].Title)
	assert.Equal(t, []string{"lang"}, all[0].Tags)

	require.NoError(t, store.DeleteBookmark("b1"))
	all, err = store.GetAllBookmarks()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_Accounts(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveAccount(&Account{ID: "a1", Issuer: "GitHub", Name: "me", Secret: "JBSWY3DPEHPK3PXP", Digits: 6, Period: 30}))
	require.NoError(t, store.SaveAccount(&Account{ID: "a2", Issuer: "AWS", Name: "root", Secret: "GEZDGNBVGY3TQOJQ", Digits: 6, Period: 30}))

	all, err := store.GetAllAccounts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AWS", all[0].Issuer)
	assert.False(t, all[0].CreatedAt.IsZero())

	require.NoError(t, store.DeleteAccount("a2"))
	all, err = store.GetAllAccounts()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_MemesNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now()

	require.NoError(t, store.SaveMemes([]*Meme{
		{ID: "m1", Source: "memes", Title: "old", Published: now.Add(-time.Hour)},
		{ID: "m2", Source: "memes", Title: "new", Published: now},
		{ID: "m3", Source: "other", Title: "elsewhere", Published: now},
	}))

	got, err := store.GetMemes("memes", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Title)

	got, err = store.GetMemes("", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_Favorites(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now()

	require.NoError(t, store.SaveFavorite(&Favorite{ID: "m1", Title: "first", SavedAt: now.Add(-time.Minute)}))
	require.NoError(t, store.SaveFavorite(&Favorite{ID: "m2", Title: "second", SavedAt: now}))

	assert.True(t, store.IsFavorite("m1"))
	assert.False(t, store.IsFavorite("nope"))

	all, err := store.GetAllFavorites()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)

	require.NoError(t, store.DeleteFavorite("m1"))
	assert.False(t, store.IsFavorite("m1"))
}

func TestStore_FeedState(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetFeedState("https://example.com/r/memes/.rss")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SaveFeedState(&FeedState{URL: "https://example.com/r/memes/.rss", ETag: `"abc"`}))
	st, err := store.GetFeedState("https://example.com/r/memes/.rss")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, st.ETag)
}

func TestStore_Recency(t *testing.T) {
	store := setupTestStore(t)

	recs, err := store.LoadRecency()
	require.NoError(t, err)
	assert.Empty(t, recs)

	tr := recency.NewTracker(0, nil)
	tr.Remember(result.Item{ID: "app:terminal", Kind: result.KindApp, Title: "Terminal", Stats: &result.Stats{Port: 22}})
	tr.RecordUse(result.KindBookmark, "b1")
	require.NoError(t, store.SaveRecency(tr.Records()))

	recs, err = store.LoadRecency()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b1", recs[0].ID)
	assert.Equal(t, result.KindBookmark, recs[0].Kind)
	assert.Equal(t, "Terminal", recs[1].Item.Title)
	require.NotNil(t, recs[1].Item.Stats)
	assert.Equal(t, 22, recs[1].Item.Stats.Port)
}

func TestStore_Stats(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.SaveBookmark(&Bookmark{ID: "b1", Title: "x", URL: "https://x.test"}))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats["bookmarks"])
	assert.Equal(t, 0, stats["entries"])
}
