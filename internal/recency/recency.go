// Package recency tracks most-recently-used rows across domains.
package recency

import (
	"time"

	"github.com/pders01/qlaunch/internal/result"
)

// DefaultCapacity bounds how many records a Tracker keeps.
const DefaultCapacity = 50

// Store is the lookup surface the ranking side consumes.
type Store interface {
	RecordUse(kind result.Kind, id string)
	// Rank returns the position of (kind, id) in the MRU ordering, 0 being
	// the most recent.
	Rank(kind result.Kind, id string) (int, bool)
	RecentItems(limit int) []string
}

// Record is one MRU entry. Item is the display snapshot taken when the row
// was last used, so the recents list can be rendered without re-querying
// the provider.
type Record struct {
	Kind   result.Kind `json:"kind"`
	ID     string      `json:"id"`
	Item   result.Item `json:"item"`
	UsedAt time.Time   `json:"used_at"`
}

// Tracker is an in-memory MRU list. It is owned by the engine goroutine and
// is not safe for concurrent use.
type Tracker struct {
	records  []Record
	capacity int
	now      func() time.Time
}

// NewTracker builds a tracker seeded with previously persisted records,
// most recent first.
func NewTracker(capacity int, seed []Record) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &Tracker{capacity: capacity, now: time.Now}
	for _, r := range seed {
		if t.find(r.Kind, r.ID) >= 0 {
			continue
		}
		t.records = append(t.records, r)
		if len(t.records) == capacity {
			break
		}
	}
	return t
}

func (t *Tracker) find(kind result.Kind, id string) int {
	for i, r := range t.records {
		if r.Kind == kind && r.ID == id {
			return i
		}
	}
	return -1
}

// RecordUse moves (kind, id) to the front, keeping any snapshot it had.
func (t *Tracker) RecordUse(kind result.Kind, id string) {
	rec := Record{Kind: kind, ID: id, Item: result.Item{ID: id, Kind: kind, Title: id}}
	if i := t.find(kind, id); i >= 0 {
		rec.Item = t.records[i].Item
	}
	t.push(rec)
}

// Remember records a use of it and refreshes its display snapshot.
func (t *Tracker) Remember(it result.Item) {
	t.push(Record{Kind: it.Kind, ID: it.ID, Item: it})
}

func (t *Tracker) push(rec Record) {
	rec.UsedAt = t.now()
	if i := t.find(rec.Kind, rec.ID); i >= 0 {
		t.records = append(t.records[:i], t.records[i+1:]...)
	}
	t.records = append([]Record{rec}, t.records...)
	if len(t.records) > t.capacity {
		t.records = t.records[:t.capacity]
	}
}

// Rank implements Store.
func (t *Tracker) Rank(kind result.Kind, id string) (int, bool) {
	i := t.find(kind, id)
	return i, i >= 0
}

// RecentItems returns up to limit identifiers, most recent first.
// A non-positive limit returns all of them.
func (t *Tracker) RecentItems(limit int) []string {
	recs := t.head(limit)
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

// Snapshots returns up to limit display snapshots, most recent first.
func (t *Tracker) Snapshots(limit int) []result.Item {
	recs := t.head(limit)
	items := make([]result.Item, len(recs))
	for i, r := range recs {
		items[i] = r.Item
	}
	return items
}

// Records returns a copy of all records for persistence.
func (t *Tracker) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Forget drops (kind, id), e.g. after the underlying entry was deleted.
func (t *Tracker) Forget(kind result.Kind, id string) {
	if i := t.find(kind, id); i >= 0 {
		t.records = append(t.records[:i], t.records[i+1:]...)
	}
}

func (t *Tracker) head(limit int) []Record {
	if limit <= 0 || limit > len(t.records) {
		return t.records
	}
	return t.records[:limit]
}
