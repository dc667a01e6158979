package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/qlaunch/internal/recency"
)

var (
	entriesBucket   = []byte("entries")
	bookmarksBucket = []byte("bookmarks")
	accountsBucket  = []byte("accounts")
	memesBucket     = []byte("memes")
	favoritesBucket = []byte("favorites")
	metaBucket      = []byte("metadata")

	recencyKey = []byte("recency")
)

// ErrNotFound is returned by lookups of missing records.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithTimeout(dbPath, 1*time.Second)
}

// NewStoreWithTimeout opens the database, waiting at most timeout for the
// file lock held by another launcher instance.
func NewStoreWithTimeout(dbPath string, timeout time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{entriesBucket, bookmarksBucket, accountsBucket, memesBucket, favoritesBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func put(tx *bolt.Tx, bucket []byte, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(key), data)
}

func (s *Store) get(bucket []byte, key string, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s %q: %w", bucket, key, ErrNotFound)
		}
		return json.Unmarshal(data, v)
	})
}

func (s *Store) remove(bucket []byte, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

// each decodes every value in bucket with decode. Undecodable records are
// skipped so one corrupt row cannot hide the rest.
func (s *Store) each(bucket []byte, decode func(v []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_ []byte, v []byte) error {
			_ = decode(v)
			return nil
		})
	})
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// Catalog entries

func (s *Store) SaveEntries(entries []*Entry) error {
	now := time.Now()
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, e := range entries {
			if e.UpdatedAt.IsZero() {
				e.UpdatedAt = now
			}
			if err := put(tx, entriesBucket, e.ID, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) SaveEntry(e *Entry) error {
	return s.SaveEntries([]*Entry{e})
}

func (s *Store) GetEntry(id string) (*Entry, error) {
	var e Entry
	if err := s.get(entriesBucket, id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetAllEntries returns catalog entries sorted by title.
func (s *Store) GetAllEntries() ([]*Entry, error) {
	var entries []*Entry
	err := s.each(entriesBucket, func(v []byte) error {
		var e Entry
		if err := json.Unmarshal(v, &e); err != nil {
			return err
		}
		entries = append(entries, &e)
		return nil
	})
	sort.SliceStable(entries, func(i, j int) bool { return lessFold(entries[i].Title, entries[j].Title) })
	return entries, err
}

func (s *Store) DeleteEntry(id string) error {
	return s.remove(entriesBucket, id)
}

// Bookmarks

func (s *Store) SaveBookmark(b *Bookmark) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bookmarksBucket, b.ID, b)
	})
}

func (s *Store) GetAllBookmarks() ([]*Bookmark, error) {
	var out []*Bookmark
	err := s.each(bookmarksBucket, func(v []byte) error {
		var b Bookmark
		if err := json.Unmarshal(v, &b); err != nil {
			return err
		}
		out = append(out, &b)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return lessFold(out[i].Title, out[j].Title) })
	return out, err
}

func (s *Store) DeleteBookmark(id string) error {
	return s.remove(bookmarksBucket, id)
}

// Two-factor accounts

func (s *Store) SaveAccount(a *Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, accountsBucket, a.ID, a)
	})
}

func (s *Store) GetAllAccounts() ([]*Account, error) {
	var out []*Account
	err := s.each(accountsBucket, func(v []byte) error {
		var a Account
		if err := json.Unmarshal(v, &a); err != nil {
			return err
		}
		out = append(out, &a)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return lessFold(out[i].Issuer+" "+out[i].Name, out[j].Issuer+" "+out[j].Name)
	})
	return out, err
}

func (s *Store) DeleteAccount(id string) error {
	return s.remove(accountsBucket, id)
}

// Memes

func (s *Store) SaveMemes(memes []*Meme) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, m := range memes {
			if err := put(tx, memesBucket, m.ID, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMemes returns cached memes of source, newest first. An empty source
// returns all of them.
func (s *Store) GetMemes(source string, limit int) ([]*Meme, error) {
	var out []*Meme
	err := s.each(memesBucket, func(v []byte) error {
		var m Meme
		if err := json.Unmarshal(v, &m); err != nil {
			return err
		}
		if source == "" || m.Source == source {
			out = append(out, &m)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Published.After(out[j].Published) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// Favorites

func (s *Store) SaveFavorite(f *Favorite) error {
	if f.SavedAt.IsZero() {
		f.SavedAt = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, favoritesBucket, f.ID, f)
	})
}

// GetAllFavorites returns favorites, most recently saved first.
func (s *Store) GetAllFavorites() ([]*Favorite, error) {
	var out []*Favorite
	err := s.each(favoritesBucket, func(v []byte) error {
		var f Favorite
		if err := json.Unmarshal(v, &f); err != nil {
			return err
		}
		out = append(out, &f)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, err
}

func (s *Store) IsFavorite(id string) bool {
	var f Favorite
	return s.get(favoritesBucket, id, &f) == nil
}

func (s *Store) DeleteFavorite(id string) error {
	return s.remove(favoritesBucket, id)
}

// Metadata

func feedStateKey(url string) string { return "feed:" + url }

func (s *Store) SaveFeedState(st *FeedState) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, metaBucket, feedStateKey(st.URL), st)
	})
}

func (s *Store) GetFeedState(url string) (*FeedState, error) {
	var st FeedState
	if err := s.get(metaBucket, feedStateKey(url), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveRecency replaces the persisted MRU list.
func (s *Store) SaveRecency(records []recency.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, metaBucket, string(recencyKey), records)
	})
}

// LoadRecency returns the persisted MRU list, empty when none was saved.
func (s *Store) LoadRecency() ([]recency.Record, error) {
	var records []recency.Record
	err := s.get(metaBucket, string(recencyKey), &records)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return records, err
}

// Stats reports record counts per bucket.
func (s *Store) Stats() (map[string]int, error) {
	stats := make(map[string]int)
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{entriesBucket, bookmarksBucket, accountsBucket, memesBucket, favoritesBucket} {
			stats[string(b)] = tx.Bucket(b).Stats().KeyN
		}
		return nil
	})
	return stats, err
}
