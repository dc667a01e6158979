package provider

import (
	"context"
	"fmt"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
	"github.com/pders01/qlaunch/internal/search"
)

// Catalog serves normal mode from the searchable catalog of apps, files,
// links, utilities and system commands.
type Catalog struct {
	searcher search.Searcher
}

func NewCatalog(searcher search.Searcher) *Catalog {
	return &Catalog{searcher: searcher}
}

func (c *Catalog) Route(_ mode.Mode, s config.Settings) dispatch.Route {
	limit := s.SearchLimit
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			if c.searcher == nil {
				return nil, Unavailable("catalog search index is not available")
			}
			hits, err := c.searcher.Search(query, limit)
			if err != nil {
				return nil, fmt.Errorf("catalog search: %w", err)
			}
			items := make([]result.Item, 0, len(hits))
			for _, h := range hits {
				items = append(items, EntryItem(h.Entry))
			}
			return items, nil
		},
	}
}
