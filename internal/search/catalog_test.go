package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/storage"
)

type recordingStore struct {
	saved   []string
	deleted []string
	err     error
}

func (s *recordingStore) SaveEntries(entries []*storage.Entry) error {
	if s.err != nil {
		return s.err
	}
	for _, e := range entries {
		s.saved = append(s.saved, e.ID)
	}
	return nil
}

func (s *recordingStore) DeleteEntry(id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

// listeningSearcher records index notifications.
type listeningSearcher struct {
	Engine
	updated []string
	deleted []string
	err     error
}

func (l *listeningSearcher) OnEntriesUpdated(entries []*storage.Entry) error {
	for _, e := range entries {
		l.updated = append(l.updated, e.ID)
	}
	return l.err
}

func (l *listeningSearcher) OnEntryDeleted(id string) error {
	l.deleted = append(l.deleted, id)
	return l.err
}

func TestIndexedCatalog_NotifiesListeners(t *testing.T) {
	store := &recordingStore{}
	searcher := &listeningSearcher{}
	c := IndexedCatalog{Store: store, Searcher: searcher}

	require.NoError(t, c.SaveEntries([]*storage.Entry{{ID: "app:a"}, {ID: "app:b"}}))
	require.NoError(t, c.DeleteEntry("app:a"))

	assert.Equal(t, []string{"app:a", "app:b"}, store.saved)
	assert.Equal(t, []string{"app:a", "app:b"}, searcher.updated)
	assert.Equal(t, []string{"app:a"}, store.deleted)
	assert.Equal(t, []string{"app:a"}, searcher.deleted)
}

func TestIndexedCatalog_PlainSearcher(t *testing.T) {
	store := &recordingStore{}
	c := IndexedCatalog{Store: store, Searcher: NewEngine(memSource{})}

	require.NoError(t, c.SaveEntries([]*storage.Entry{{ID: "app:a"}}))
	require.NoError(t, c.DeleteEntry("app:a"))
	assert.Equal(t, []string{"app:a"}, store.saved)
	assert.Equal(t, []string{"app:a"}, store.deleted)
}

func TestIndexedCatalog_Errors(t *testing.T) {
	t.Run("store error skips the index", func(t *testing.T) {
		searcher := &listeningSearcher{}
		c := IndexedCatalog{Store: &recordingStore{err: errors.New("disk full")}, Searcher: searcher}

		assert.ErrorContains(t, c.SaveEntries([]*storage.Entry{{ID: "app:a"}}), "disk full")
		assert.ErrorContains(t, c.DeleteEntry("app:a"), "disk full")
		assert.Empty(t, searcher.updated)
		assert.Empty(t, searcher.deleted)
	})

	t.Run("index error is returned", func(t *testing.T) {
		c := IndexedCatalog{Store: &recordingStore{}, Searcher: &listeningSearcher{err: errors.New("index closed")}}

		err := c.SaveEntries([]*storage.Entry{{ID: "app:a"}})
		assert.ErrorContains(t, err, "updating search index")
		assert.ErrorContains(t, err, "index closed")
		assert.ErrorContains(t, c.DeleteEntry("app:a"), "index closed")
	})
}
