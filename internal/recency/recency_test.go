package recency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/result"
)

func TestTracker_MostRecentFirst(t *testing.T) {
	tr := NewTracker(0, nil)
	tr.RecordUse(result.KindApp, "a")
	tr.RecordUse(result.KindApp, "b")
	tr.RecordUse(result.KindApp, "a")

	assert.Equal(t, []string{"a", "b"}, tr.RecentItems(0))

	r, ok := tr.Rank(result.KindApp, "b")
	require.True(t, ok)
	assert.Equal(t, 1, r)

	_, ok = tr.Rank(result.KindFile, "b")
	assert.False(t, ok, "rank is keyed by kind as well as id")
}

func TestTracker_CapacityAndLimit(t *testing.T) {
	tr := NewTracker(2, nil)
	tr.RecordUse(result.KindApp, "a")
	tr.RecordUse(result.KindApp, "b")
	tr.RecordUse(result.KindApp, "c")

	assert.Equal(t, []string{"c", "b"}, tr.RecentItems(0))
	assert.Equal(t, []string{"c"}, tr.RecentItems(1))
}

func TestTracker_RememberKeepsSnapshot(t *testing.T) {
	tr := NewTracker(0, nil)
	tr.Remember(result.Item{ID: "safari", Kind: result.KindApp, Title: "Safari", Target: "/Applications/Safari.app"})
	tr.RecordUse(result.KindApp, "safari")

	snaps := tr.Snapshots(0)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Safari", snaps[0].Title)
	assert.Equal(t, "/Applications/Safari.app", snaps[0].Target)
}

func TestTracker_SeedDedupesAndForget(t *testing.T) {
	seed := []Record{
		{Kind: result.KindApp, ID: "a"},
		{Kind: result.KindApp, ID: "a"},
		{Kind: result.KindFile, ID: "b"},
	}
	tr := NewTracker(0, seed)
	assert.Equal(t, []string{"a", "b"}, tr.RecentItems(0))

	tr.Forget(result.KindApp, "a")
	assert.Equal(t, []string{"b"}, tr.RecentItems(0))

	recs := tr.Records()
	recs[0].ID = "mutated"
	assert.Equal(t, []string{"b"}, tr.RecentItems(0))
}

func TestTracker_ImplementsStore(t *testing.T) {
	var _ Store = NewTracker(0, nil)
}
