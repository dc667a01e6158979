package search

import (
	"fmt"

	"github.com/pders01/qlaunch/internal/storage"
)

// CatalogStore is the write side of the catalog.
type CatalogStore interface {
	SaveEntries(entries []*storage.Entry) error
	DeleteEntry(id string) error
}

// IndexedCatalog writes catalog entries to the store and tells the
// searcher about each change when it keeps an index.
type IndexedCatalog struct {
	Store    CatalogStore
	Searcher Searcher
}

func (c IndexedCatalog) SaveEntries(entries []*storage.Entry) error {
	if err := c.Store.SaveEntries(entries); err != nil {
		return err
	}
	if l, ok := c.Searcher.(UpdateListener); ok {
		if err := l.OnEntriesUpdated(entries); err != nil {
			return fmt.Errorf("updating search index: %w", err)
		}
	}
	return nil
}

func (c IndexedCatalog) DeleteEntry(id string) error {
	if err := c.Store.DeleteEntry(id); err != nil {
		return err
	}
	if l, ok := c.Searcher.(DeleteListener); ok {
		if err := l.OnEntryDeleted(id); err != nil {
			return fmt.Errorf("updating search index: %w", err)
		}
	}
	return nil
}
