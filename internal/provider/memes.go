package provider

import (
	"context"
	"strings"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
	"github.com/pders01/qlaunch/internal/storage"
)

// MemeFeed refreshes and serves cached memes; implemented by feed.Manager.
type MemeFeed interface {
	Refresh(ctx context.Context, sources []string) error
	Memes(sources []string, limit int) ([]*storage.Meme, error)
}

type FavoriteStore interface {
	SaveFavorite(f *storage.Favorite) error
	GetAllFavorites() ([]*storage.Favorite, error)
	IsFavorite(id string) bool
	DeleteFavorite(id string) error
}

const (
	memePrefix     = "meme:"
	favoritePrefix = "favorite:"
	favoriteMarker = "★"
)

// Memes searches remote meme feeds. Fetching is network bound, so the
// route is debounced and bounded by the network timeout.
type Memes struct {
	feed      MemeFeed
	favorites FavoriteStore
}

func NewMemes(feed MemeFeed, favorites FavoriteStore) *Memes {
	return &Memes{feed: feed, favorites: favorites}
}

func (p *Memes) Route(_ mode.Mode, s config.Settings) dispatch.Route {
	sources := append([]string(nil), s.MemeSources...)
	limit := s.MemeMaxResults
	return dispatch.Route{
		Strategy: dispatch.Async(s.MemeDebounce, s.NetworkTimeout),
		Search: func(ctx context.Context, query string) ([]result.Item, error) {
			if p.feed == nil || len(sources) == 0 {
				return nil, Unavailable("no meme sources configured")
			}
			refreshErr := p.feed.Refresh(ctx, sources)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			memes, err := p.feed.Memes(sources, 0)
			if err != nil {
				return nil, err
			}
			if len(memes) == 0 && refreshErr != nil {
				return nil, refreshErr
			}
			if refreshErr != nil {
				debuglog.Warnf("serving cached memes: %v", refreshErr)
			}

			keys := make([]string, len(memes))
			for i, m := range memes {
				keys[i] = m.Title
			}
			var items []result.Item
			for _, i := range filter(query, keys) {
				items = append(items, p.memeItem(memes[i]))
			}
			return truncate(items, limit), nil
		},
	}
}

func (p *Memes) memeItem(m *storage.Meme) result.Item {
	it := result.Item{
		ID:       memePrefix + m.ID,
		Kind:     result.KindMemeEntry,
		Title:    m.Title,
		Subtitle: m.Source,
		Target:   m.ImageURL,
		Value:    m.PageURL,
	}
	if p.favorites != nil && p.favorites.IsFavorite(m.ID) {
		it.Marker = favoriteMarker
	}
	return it
}

func (p *Memes) Actions(item result.Item) []Action {
	if item.Kind != result.KindMemeEntry {
		return nil
	}
	var actions []Action
	if item.Value != "" {
		actions = append(actions, Action{ID: "open-post", Title: "Open post", Outcome: Open(item.Value, "")})
	}
	if p.favorites == nil {
		return actions
	}
	id := strings.TrimPrefix(item.ID, memePrefix)
	if p.favorites.IsFavorite(id) {
		return append(actions, Action{
			ID:    "unfavorite",
			Title: "Remove from favorites",
			Do:    func() error { return p.favorites.DeleteFavorite(id) },
		})
	}
	return append(actions, Action{
		ID:    "favorite",
		Title: "Add to favorites",
		Do: func() error {
			return p.favorites.SaveFavorite(&storage.Favorite{
				ID:       id,
				Title:    item.Title,
				ImageURL: item.Target,
				PageURL:  item.Value,
				Source:   item.Subtitle,
			})
		},
	})
}

// Favorites browses saved memes.
type Favorites struct {
	store FavoriteStore
}

func NewFavorites(store FavoriteStore) *Favorites {
	return &Favorites{store: store}
}

func (p *Favorites) Route(_ mode.Mode, s config.Settings) dispatch.Route {
	limit := s.SearchLimit
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			all, err := p.store.GetAllFavorites()
			if err != nil {
				return nil, err
			}
			if len(all) == 0 {
				return []result.Item{result.Info("favorites:empty", "No favorites yet", "Add memes from meme search with the quick actions")}, nil
			}
			keys := make([]string, len(all))
			for i, f := range all {
				keys[i] = f.Title + " " + f.Source
			}
			var items []result.Item
			for _, i := range filter(query, keys) {
				f := all[i]
				items = append(items, result.Item{
					ID:       favoritePrefix + f.ID,
					Kind:     result.KindFavoriteEntry,
					Title:    f.Title,
					Subtitle: f.Source,
					Target:   f.ImageURL,
					Value:    f.PageURL,
				})
			}
			return truncate(items, limit), nil
		},
	}
}

func (p *Favorites) Actions(item result.Item) []Action {
	if item.Kind != result.KindFavoriteEntry {
		return nil
	}
	id := strings.TrimPrefix(item.ID, favoritePrefix)
	var actions []Action
	if item.Value != "" {
		actions = append(actions, Action{ID: "open-post", Title: "Open post", Outcome: Open(item.Value, "")})
	}
	return append(actions, Action{
		ID:    "unfavorite",
		Title: "Remove from favorites",
		Do:    func() error { return p.store.DeleteFavorite(id) },
	})
}
