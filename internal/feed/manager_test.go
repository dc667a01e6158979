package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/storage"
)

func rssFeed(title, image, pubDate string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>%s</title><link>https://memes.test/%s</link><guid>%s</guid>
<pubDate>%s</pubDate><enclosure url="%s" type="image/jpeg"/></item>
</channel></rss>`, title, title, title, pubDate, image)
}

func setupManager(t *testing.T) (*Manager, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := NewManager(store, config.TestConfig(), nil)
	m.SetPermissiveValidation(true)
	return m, store
}

func TestManager_RefreshAndMemes(t *testing.T) {
	var hits atomic.Int32
	one := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("ETag", `"v1"`)
		_, _ = fmt.Fprint(w, rssFeed("older", "https://memes.test/older.jpg", "Wed, 01 Jan 2025 12:00:00 GMT"))
	}))
	defer one.Close()
	two := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, rssFeed("newer", "https://memes.test/newer.png", "Fri, 03 Jan 2025 12:00:00 GMT"))
	}))
	defer two.Close()

	m, store := setupManager(t)
	sources := []string{one.URL, two.URL}

	require.NoError(t, m.Refresh(context.Background(), sources))
	assert.Equal(t, int32(2), hits.Load())

	memes, err := m.Memes(sources, 0)
	require.NoError(t, err)
	require.Len(t, memes, 2)
	assert.Equal(t, "newer", memes[0].Title)
	assert.Equal(t, two.URL, memes[0].Source)

	state, err := store.GetFeedState(one.URL)
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, state.ETag)

	t.Run("fresh sources are served from cache", func(t *testing.T) {
		require.NoError(t, m.Refresh(context.Background(), sources))
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("force refresh refetches", func(t *testing.T) {
		m.SetForceRefresh(true)
		defer m.SetForceRefresh(false)
		require.NoError(t, m.Refresh(context.Background(), sources))
		assert.Equal(t, int32(4), hits.Load())
	})

	t.Run("limit", func(t *testing.T) {
		memes, err := m.Memes(sources, 1)
		require.NoError(t, err)
		assert.Len(t, memes, 1)
	})
}

func TestManager_NotModifiedKeepsCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 && r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = fmt.Fprint(w, rssFeed("cached", "https://memes.test/c.jpg", "Wed, 01 Jan 2025 12:00:00 GMT"))
	}))
	defer server.Close()

	m, _ := setupManager(t)
	m.SetFreshness(0)

	require.NoError(t, m.Refresh(context.Background(), []string{server.URL}))
	require.NoError(t, m.Refresh(context.Background(), []string{server.URL}))
	assert.Equal(t, int32(2), calls.Load())

	memes, err := m.Memes([]string{server.URL}, 0)
	require.NoError(t, err)
	assert.Len(t, memes, 1)
}

func TestManager_PartialFailure(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, rssFeed("ok", "https://memes.test/ok.jpg", "Wed, 01 Jan 2025 12:00:00 GMT"))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	m, _ := setupManager(t)
	err := m.Refresh(context.Background(), []string{good.URL, bad.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad.URL)
	assert.Contains(t, err.Error(), "502")

	memes, err := m.Memes([]string{good.URL}, 0)
	require.NoError(t, err)
	assert.Len(t, memes, 1, "the healthy source is still cached")
}

func TestManager_ValidationRejectsLocalFeeds(t *testing.T) {
	m, _ := setupManager(t)
	m.SetPermissiveValidation(false)

	err := m.Refresh(context.Background(), []string{"http://127.0.0.1:1/rss"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid feed URL")
}

func TestManager_RefreshCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	m, _ := setupManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := m.Refresh(ctx, []string{server.URL})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDefaultRegistryResolvesSubreddits(t *testing.T) {
	r := DefaultRegistry(time.Second)
	info, err := r.Resolve(context.Background(), "ProgrammerHumor")
	require.NoError(t, err)
	assert.Equal(t, "https://www.reddit.com/r/ProgrammerHumor/.rss", info.FeedURL)
}
