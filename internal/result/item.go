package result

import "fmt"

// Kind tags what a row represents.
type Kind int

const (
	KindApp Kind = iota
	KindFile
	KindWebLink
	KindUtility
	KindSystemCommand
	KindBookmark
	KindTwoFactorCode
	KindMemeEntry
	KindFavoriteEntry
	KindBookmarkEntry
	KindTwoFactorEntry
	KindSectionHeader
	KindModeResult
)

var kindNames = map[Kind]string{
	KindApp:            "app",
	KindFile:           "file",
	KindWebLink:        "weblink",
	KindUtility:        "utility",
	KindSystemCommand:  "system",
	KindBookmark:       "bookmark",
	KindTwoFactorCode:  "2fa-code",
	KindMemeEntry:      "meme-entry",
	KindFavoriteEntry:  "favorite-entry",
	KindBookmarkEntry:  "bookmark-entry",
	KindTwoFactorEntry: "2fa-entry",
	KindSectionHeader:  "header",
	KindModeResult:     "mode-result",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String. Unknown names map to KindModeResult.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindModeResult, false
}

// Promotion names the sub-mode a row can be promoted into with Tab.
type Promotion int

const (
	PromoteNone Promotion = iota
	PromoteIDEProjects
	PromoteFolderOpeners
	PromoteWebLinkQuery
	PromoteUtility
	PromoteBookmarks
	PromoteTwoFactor
	PromoteMemes
	PromoteFavorites
)

// Stats carries the optional CPU / memory / port triple shown next to
// process-like rows.
type Stats struct {
	CPU      float64
	MemoryMB float64
	Port     int
}

// Item is one row of a result list. Items are values: a changed row is a
// new Item that replaces the old one by position or ID.
type Item struct {
	ID         string
	Kind       Kind
	Title      string
	Subtitle   string
	AliasBadge string
	// Marker is a display-only symbol drawn before the title, such as the
	// favorite star. Ranking never looks at it.
	Marker string
	Stats  *Stats

	Promotion Promotion
	// Target is the payload the row acts on: a path, URL, utility
	// identifier or mode argument.
	Target string
	// With optionally names the application used to open Target.
	With string
	// Value is what gets copied for copy-style rows (2FA codes, UUIDs).
	Value string
}

// Selectable reports whether selection may rest on this row.
func (i Item) Selectable() bool {
	return i.Kind != KindSectionHeader
}

// SupportsPromotion reports whether Tab can promote this row into a sub-mode.
func (i Item) SupportsPromotion() bool {
	return i.Promotion != PromoteNone && i.Selectable()
}

// Header builds a non-selectable section header row.
func Header(title string) Item {
	return Item{ID: "header:" + title, Kind: KindSectionHeader, Title: title}
}

// Info builds an informational row, used for provider failures and empty states.
func Info(id, title, subtitle string) Item {
	return Item{ID: id, Kind: KindModeResult, Title: title, Subtitle: subtitle}
}
