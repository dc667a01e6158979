package search

import "github.com/pders01/qlaunch/internal/storage"

// Searcher is the catalog search API used by normal mode.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Result is a catalog entry matched by a query.
type Result struct {
	Entry   *storage.Entry
	Score   float64
	Matches []Match
}

// Match records which field of an entry matched.
type Match struct {
	Field  string
	Text   string
	Weight float64
}

// UpdateListener can be implemented by search engines that maintain
// an external index and want to be notified about catalog changes.
type UpdateListener interface {
	OnEntriesUpdated(entries []*storage.Entry) error
}

// DeleteListener gets notified when an entry is removed.
type DeleteListener interface {
	OnEntryDeleted(id string) error
}

// Reindexer rebuilds its index from the store.
type Reindexer interface {
	Reindex() error
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}
