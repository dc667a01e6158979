// Package mode defines the launcher's extension modes and the controller
// that switches between them.
package mode

import (
	"fmt"
	"strings"
)

// Kind identifies a mode variant.
type Kind int

const (
	KindNormal Kind = iota
	KindIDEProjects
	KindFolderOpeners
	KindWebLinkQuery
	KindUtility
	KindBookmarks
	KindTwoFactor
	KindMemeSearch
	KindMemeFavorites
)

// Kinds lists every variant, Normal first.
var Kinds = []Kind{
	KindNormal, KindIDEProjects, KindFolderOpeners, KindWebLinkQuery,
	KindUtility, KindBookmarks, KindTwoFactor, KindMemeSearch, KindMemeFavorites,
}

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindIDEProjects:
		return "ide"
	case KindFolderOpeners:
		return "folder"
	case KindWebLinkQuery:
		return "weblink"
	case KindUtility:
		return "utility"
	case KindBookmarks:
		return "bookmarks"
	case KindTwoFactor:
		return "2fa"
	case KindMemeSearch:
		return "memes"
	case KindMemeFavorites:
		return "favorites"
	}
	return fmt.Sprintf("mode(%d)", int(k))
}

// Mode is exactly one of the variant types below. The unexported method
// keeps the set closed.
type Mode interface {
	Kind() Kind
	// Key distinguishes two instances of the same kind, e.g. two utilities.
	Key() string
	isMode()
}

type Normal struct{}

// Project is one entry of an IDE's recent-projects list.
type Project struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// IDEProjects lists the recent projects of one IDE application.
type IDEProjects struct {
	App      string
	IDEType  string
	Projects []Project
}

// FolderOpeners lists the applications that can open Folder.
type FolderOpeners struct {
	Folder  string
	Openers []string
}

// WebLinkQuery turns the query text into the suffix of a URL template.
type WebLinkQuery struct {
	Name     string
	Template string
}

type Utility struct {
	ID string
}

type Bookmarks struct{}
type TwoFactor struct{}
type MemeSearch struct{}
type MemeFavorites struct{}

func (Normal) Kind() Kind        { return KindNormal }
func (IDEProjects) Kind() Kind   { return KindIDEProjects }
func (FolderOpeners) Kind() Kind { return KindFolderOpeners }
func (WebLinkQuery) Kind() Kind  { return KindWebLinkQuery }
func (Utility) Kind() Kind       { return KindUtility }
func (Bookmarks) Kind() Kind     { return KindBookmarks }
func (TwoFactor) Kind() Kind     { return KindTwoFactor }
func (MemeSearch) Kind() Kind    { return KindMemeSearch }
func (MemeFavorites) Kind() Kind { return KindMemeFavorites }

func (Normal) Key() string          { return KindNormal.String() }
func (m IDEProjects) Key() string   { return KindIDEProjects.String() + ":" + m.App }
func (m FolderOpeners) Key() string { return KindFolderOpeners.String() + ":" + m.Folder }
func (m WebLinkQuery) Key() string  { return KindWebLinkQuery.String() + ":" + m.Name }
func (m Utility) Key() string       { return KindUtility.String() + ":" + m.ID }
func (Bookmarks) Key() string       { return KindBookmarks.String() }
func (TwoFactor) Key() string       { return KindTwoFactor.String() }
func (MemeSearch) Key() string      { return KindMemeSearch.String() }
func (MemeFavorites) Key() string   { return KindMemeFavorites.String() }

func (Normal) isMode()        {}
func (IDEProjects) isMode()   {}
func (FolderOpeners) isMode() {}
func (WebLinkQuery) isMode()  {}
func (Utility) isMode()       {}
func (Bookmarks) isMode()     {}
func (TwoFactor) isMode()     {}
func (MemeSearch) isMode()    {}
func (MemeFavorites) isMode() {}

// IsGrid reports whether results of m are laid out as a 2-D grid.
func IsGrid(m Mode) bool {
	switch m.Kind() {
	case KindMemeSearch, KindMemeFavorites:
		return true
	}
	return false
}

// Placeholder is the query field hint shown while m is active.
func Placeholder(m Mode) string {
	switch v := m.(type) {
	case IDEProjects:
		return "Search " + v.App + " projects…"
	case FolderOpeners:
		return "Open " + v.Folder + " with…"
	case WebLinkQuery:
		return v.Name + " search…"
	case Utility:
		return strings.ToUpper(v.ID) + "…"
	case Bookmarks:
		return "Search bookmarks…"
	case TwoFactor:
		return "Search two-factor accounts…"
	case MemeSearch:
		return "Search memes…"
	case MemeFavorites:
		return "Search favorite memes…"
	}
	return "Search apps, files and commands…"
}

// Label is the short badge shown next to the query field.
func Label(m Mode) string {
	switch v := m.(type) {
	case Normal:
		return ""
	case IDEProjects:
		return v.App
	case FolderOpeners:
		return "Open With"
	case WebLinkQuery:
		return v.Name
	case Utility:
		return strings.ToUpper(v.ID)
	}
	return m.Kind().String()
}

// Parse reads a mode name as accepted on the command line: normal,
// bookmarks, 2fa, memes, favorites or utility:<id>.
func Parse(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if id, ok := strings.CutPrefix(s, "utility:"); ok {
		if id == "" {
			return nil, fmt.Errorf("utility mode needs an identifier")
		}
		return Utility{ID: id}, nil
	}
	switch s {
	case "", "normal":
		return Normal{}, nil
	case "bookmarks", "bm":
		return Bookmarks{}, nil
	case "2fa", "twofactor":
		return TwoFactor{}, nil
	case "memes", "meme":
		return MemeSearch{}, nil
	case "favorites", "fav":
		return MemeFavorites{}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", s)
}
