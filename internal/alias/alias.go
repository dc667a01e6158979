// Package alias resolves short configured prefixes into domain entry rows.
package alias

import (
	"strings"

	"github.com/pders01/qlaunch/internal/result"
)

// Domain identifies an aliasable extension domain.
type Domain string

const (
	Bookmarks Domain = "bookmarks"
	TwoFactor Domain = "twofactor"
	Memes     Domain = "memes"
	Favorites Domain = "favorites"
)

// Priority is the fixed order in which matched entries are listed.
// New domains are appended here.
var Priority = []Domain{Bookmarks, TwoFactor, Memes, Favorites}

var domainInfo = map[Domain]struct {
	title     string
	subtitle  string
	kind      result.Kind
	promotion result.Promotion
}{
	Bookmarks: {"Bookmarks", "Search saved bookmarks", result.KindBookmarkEntry, result.PromoteBookmarks},
	TwoFactor: {"Two-Factor Codes", "Look up one-time codes", result.KindTwoFactorEntry, result.PromoteTwoFactor},
	Memes:     {"Meme Search", "Search meme feeds", result.KindModeResult, result.PromoteMemes},
	Favorites: {"Meme Favorites", "Browse saved memes", result.KindModeResult, result.PromoteFavorites},
}

// Config is the alias configuration for a single domain.
type Config struct {
	Alias   string
	Enabled bool
}

// Entry is a resolved alias: the domain it targets, and whether the query
// matched the alias exactly rather than as a prefix.
type Entry struct {
	Domain Domain
	Alias  string
	Exact  bool
}

// Matches applies the alias matching rule: the lowercased alias starts with
// the lowercased query, or equals it. An empty query or alias never matches.
func Matches(query, configured string) (matched, exact bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	a := strings.ToLower(strings.TrimSpace(configured))
	if q == "" || a == "" {
		return false, false
	}
	if q == a {
		return true, true
	}
	return strings.HasPrefix(a, q), false
}

// Resolve returns one entry per enabled domain whose alias matches query,
// in Priority order.
func Resolve(query string, configured map[Domain]Config) []Entry {
	var out []Entry
	for _, d := range Priority {
		cfg, ok := configured[d]
		if !ok || !cfg.Enabled {
			continue
		}
		matched, exact := Matches(query, cfg.Alias)
		if !matched {
			continue
		}
		out = append(out, Entry{Domain: d, Alias: cfg.Alias, Exact: exact})
	}
	return out
}

// Item renders the entry as a promotable result row.
func (e Entry) Item() result.Item {
	info, ok := domainInfo[e.Domain]
	if !ok {
		return result.Item{
			ID:         "alias:" + string(e.Domain),
			Kind:       result.KindModeResult,
			Title:      string(e.Domain),
			AliasBadge: e.Alias,
		}
	}
	return result.Item{
		ID:         "alias:" + string(e.Domain),
		Kind:       info.kind,
		Title:      info.title,
		Subtitle:   info.subtitle,
		AliasBadge: e.Alias,
		Promotion:  info.promotion,
		Target:     string(e.Domain),
	}
}

// DomainFor maps a promotion back to its aliasable domain.
func DomainFor(p result.Promotion) (Domain, bool) {
	for d, info := range domainInfo {
		if info.promotion == p {
			return d, true
		}
	}
	return "", false
}
