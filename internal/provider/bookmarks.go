package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
	"github.com/pders01/qlaunch/internal/storage"
)

type BookmarkStore interface {
	GetAllBookmarks() ([]*storage.Bookmark, error)
}

type Bookmarks struct {
	store BookmarkStore
}

func NewBookmarks(store BookmarkStore) *Bookmarks {
	return &Bookmarks{store: store}
}

func (b *Bookmarks) Route(_ mode.Mode, s config.Settings) dispatch.Route {
	limit := s.SearchLimit
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			all, err := b.store.GetAllBookmarks()
			if err != nil {
				return nil, fmt.Errorf("loading bookmarks: %w", err)
			}
			if len(all) == 0 {
				return []result.Item{result.Info("bookmarks:empty", "No bookmarks yet", "Add one with qlaunch bookmark add <url>")}, nil
			}
			keys := make([]string, len(all))
			for i, bm := range all {
				keys[i] = bm.Title + " " + bm.URL + " " + strings.Join(bm.Tags, " ")
			}
			var items []result.Item
			for _, i := range filter(query, keys) {
				items = append(items, bookmarkItem(all[i]))
			}
			return truncate(items, limit), nil
		},
	}
}

func bookmarkItem(bm *storage.Bookmark) result.Item {
	return result.Item{
		ID:       "bookmark:" + bm.ID,
		Kind:     result.KindBookmark,
		Title:    bm.Title,
		Subtitle: bm.URL,
		Target:   bm.URL,
	}
}

// filter returns the indices of keys matching query, best match first. An
// empty query keeps every key in order.
func filter(query string, keys []string) []int {
	q := strings.TrimSpace(query)
	if q == "" {
		idx := make([]int, len(keys))
		for i := range keys {
			idx[i] = i
		}
		return idx
	}
	matches := fuzzy.Find(q, keys)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	return idx
}

func truncate(items []result.Item, limit int) []result.Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
