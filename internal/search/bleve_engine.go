package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/qlaunch/internal/storage"
)

// EntryStore is what the bleve engine needs from storage.
type EntryStore interface {
	EntrySource
	GetEntry(id string) (*storage.Entry, error)
}

type BleveEngine struct {
	store EntryStore
	idx   bleve.Index
}

// NewBleveEngine opens the Bleve index at indexPath, creating it from the
// current catalog when it does not exist yet. An existing index is kept as
// is; catalog writers keep it current through OnEntriesUpdated and
// OnEntryDeleted, and Reindex rebuilds it.
func NewBleveEngine(store EntryStore, indexPath string) (*BleveEngine, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	created := false
	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
		created = true
	}

	be := &BleveEngine{store: store, idx: idx}
	if created {
		if err := be.Reindex(); err != nil {
			idx.Close()
			return nil, err
		}
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	alias := bleve.NewTextFieldMapping()
	alias.Analyzer = standard.Name

	keywords := bleve.NewTextFieldMapping()
	keywords.Analyzer = standard.Name

	subtitle := bleve.NewTextFieldMapping()
	subtitle.Analyzer = standard.Name
	subtitle.Store = true

	target := bleve.NewTextFieldMapping()
	target.Analyzer = standard.Name

	kind := bleve.NewKeywordFieldMapping()
	kind.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("alias", alias)
	dm.AddFieldMappingsAt("keywords", keywords)
	dm.AddFieldMappingsAt("subtitle", subtitle)
	dm.AddFieldMappingsAt("target", target)
	dm.AddFieldMappingsAt("kind", kind)

	im.DefaultMapping = dm
	return im
}

func entryDoc(e *storage.Entry) map[string]any {
	return map[string]any{
		"kind":     e.Kind,
		"title":    e.Title,
		"alias":    e.AliasBadge,
		"keywords": strings.Join(e.Keywords, " "),
		"subtitle": e.Subtitle,
		"target":   e.Target,
	}
}

// Reindex drops every document and indexes the catalog again.
func (b *BleveEngine) Reindex() error {
	entries, err := b.store.GetAllEntries()
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), 10000, 0, false)
	if res, err := b.idx.Search(req); err == nil {
		for _, h := range res.Hits {
			batch.Delete(h.ID)
		}
	}
	for _, e := range entries {
		if err := batch.Index(e.ID, entryDoc(e)); err != nil {
			return fmt.Errorf("indexing %s: %w", e.ID, err)
		}
	}
	return b.idx.Batch(batch)
}

// Search ORs per-token match and prefix queries across the entry fields,
// boosted by field.
func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	boosts := []struct {
		field         string
		match, prefix float64
	}{
		{"title", 4.0, 3.5},
		{"alias", 3.0, 2.5},
		{"keywords", 2.0, 1.8},
		{"subtitle", 1.5, 1.2},
		{"target", 0.5, 0.3},
	}

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		for _, f := range boosts {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(f.field)
			mq.SetBoost(f.match)
			qs = append(qs, mq)

			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(f.field)
			pq.SetBoost(f.prefix)
			qs = append(qs, pq)
		}
	}

	srch := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		entry, err := b.store.GetEntry(h.ID)
		if err != nil {
			// index lags behind a deletion
			continue
		}
		out = append(out, &Result{Entry: entry, Score: h.Score})
	}
	return out, nil
}

// OnEntriesUpdated indexes the given entries.
func (b *BleveEngine) OnEntriesUpdated(entries []*storage.Entry) error {
	batch := b.idx.NewBatch()
	for _, e := range entries {
		if err := batch.Index(e.ID, entryDoc(e)); err != nil {
			return fmt.Errorf("indexing %s: %w", e.ID, err)
		}
	}
	return b.idx.Batch(batch)
}

// OnEntryDeleted removes an entry from the index.
func (b *BleveEngine) OnEntryDeleted(id string) error {
	if err := b.idx.Delete(id); err != nil {
		return fmt.Errorf("unindexing %s: %w", id, err)
	}
	return nil
}

// DocCount reports total documents in the index.
func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}
