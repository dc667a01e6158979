// Package rank merges provider rows, alias entries and recency into the
// final display order.
package rank

import (
	"sort"
	"strings"

	"github.com/pders01/qlaunch/internal/alias"
	"github.com/pders01/qlaunch/internal/recency"
	"github.com/pders01/qlaunch/internal/result"
)

// Input is everything one ranking pass needs.
type Input struct {
	Query string
	// Primary holds the active provider's rows in provider order.
	Primary []result.Item
	// Fallback holds default actions such as web search rows.
	Fallback []result.Item
	Aliases  []alias.Entry
	Recency  recency.Store

	// StartExpanded selects what an empty query shows: Recents when true,
	// nothing otherwise.
	StartExpanded bool
	Recents       []result.Item
}

// Rank orders rows as alias entries, exact alias-badge matches, recently
// used rows (most recent first) and the remaining rows in provider order.
// Fallback rows follow everything when the primary provider produced rows
// and come before the rest when it produced none; entries whose alias the
// query spells out exactly stay on top either way. Fallback rows whose ID
// already appears in Primary are dropped.
func Rank(in Input) []result.Item {
	q := strings.ToLower(strings.TrimSpace(in.Query))
	if q == "" {
		if in.StartExpanded {
			out := make([]result.Item, len(in.Recents))
			copy(out, in.Recents)
			return out
		}
		return nil
	}

	var exactEntries, prefixEntries []result.Item
	for _, e := range in.Aliases {
		if e.Exact {
			exactEntries = append(exactEntries, e.Item())
		} else {
			prefixEntries = append(prefixEntries, e.Item())
		}
	}

	exact, recent, other := partition(q, in.Primary, in.Recency)
	fallback := dedupe(in.Fallback, in.Primary)

	out := make([]result.Item, 0, len(in.Aliases)+len(in.Primary)+len(fallback))
	out = append(out, exactEntries...)
	if len(in.Primary) == 0 {
		out = append(out, fallback...)
		out = append(out, prefixEntries...)
		return out
	}
	out = append(out, prefixEntries...)
	out = append(out, exact...)
	out = append(out, recent...)
	out = append(out, other...)
	out = append(out, fallback...)
	return out
}

type ranked struct {
	item result.Item
	rank int
}

func partition(q string, primary []result.Item, store recency.Store) (exact, recent, other []result.Item) {
	var hits []ranked
	for _, it := range primary {
		if it.AliasBadge != "" && strings.ToLower(it.AliasBadge) == q {
			exact = append(exact, it)
			continue
		}
		if store != nil {
			if r, ok := store.Rank(it.Kind, it.ID); ok {
				hits = append(hits, ranked{item: it, rank: r})
				continue
			}
		}
		other = append(other, it)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })
	for _, h := range hits {
		recent = append(recent, h.item)
	}
	return exact, recent, other
}

func dedupe(fallback, primary []result.Item) []result.Item {
	if len(fallback) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(primary))
	for _, it := range primary {
		seen[it.ID] = struct{}{}
	}
	out := make([]result.Item, 0, len(fallback))
	for _, it := range fallback {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
