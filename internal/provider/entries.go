package provider

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/result"
	"github.com/pders01/qlaunch/internal/storage"
	"github.com/pders01/qlaunch/internal/validation"
)

//go:embed builtin.toml
var builtinTOML []byte

// KindFolder is the catalog kind of folders. Folders are file rows that
// can be promoted into the folder-openers mode.
const KindFolder = "folder"

type builtinEntry struct {
	ID        string   `toml:"id"`
	Kind      string   `toml:"kind"`
	Title     string   `toml:"title"`
	Subtitle  string   `toml:"subtitle"`
	Target    string   `toml:"target"`
	Keywords  []string `toml:"keywords"`
	Platforms []string `toml:"platforms"`
}

// Builtins returns the built-in catalog entries for goos.
func Builtins(goos string) ([]*storage.Entry, error) {
	var doc struct {
		Entries []builtinEntry `toml:"entries"`
	}
	if err := toml.Unmarshal(builtinTOML, &doc); err != nil {
		return nil, fmt.Errorf("parsing builtin catalog: %w", err)
	}
	var out []*storage.Entry
	for _, b := range doc.Entries {
		if len(b.Platforms) > 0 && !slices.Contains(b.Platforms, goos) {
			continue
		}
		out = append(out, &storage.Entry{
			ID:       b.ID,
			Kind:     b.Kind,
			Title:    b.Title,
			Subtitle: b.Subtitle,
			Target:   expandHome(b.Target),
			Keywords: b.Keywords,
		})
	}
	return out, nil
}

// LinkEntries turns configured web links into catalog entries. Links
// without a valid template are skipped.
func LinkEntries(links []config.SearchTemplate) []*storage.Entry {
	v := validation.NewLinkValidator()
	var out []*storage.Entry
	for _, l := range links {
		if err := v.ValidateTemplate(l.URL); err != nil {
			continue
		}
		out = append(out, &storage.Entry{
			ID:       "weblink:" + strings.ToLower(l.Name),
			Kind:     result.KindWebLink.String(),
			Title:    l.Name,
			Subtitle: l.URL,
			Target:   l.URL,
			Keywords: []string{"web", "search"},
		})
	}
	return out
}

// SeedCatalog stores the built-in and link entries.
func SeedCatalog(store interface {
	SaveEntries([]*storage.Entry) error
}, links []config.SearchTemplate) error {
	entries, err := Builtins(runtime.GOOS)
	if err != nil {
		return err
	}
	entries = append(entries, LinkEntries(links)...)
	return store.SaveEntries(entries)
}

// EntryItem converts a catalog entry into a result row.
func EntryItem(e *storage.Entry) result.Item {
	it := result.Item{
		ID:         e.ID,
		Title:      e.Title,
		Subtitle:   e.Subtitle,
		AliasBadge: e.AliasBadge,
		Target:     e.Target,
		With:       e.With,
	}

	if e.Kind == KindFolder {
		it.Kind = result.KindFile
		it.Promotion = result.PromoteFolderOpeners
		return it
	}

	kind, ok := result.ParseKind(e.Kind)
	if !ok {
		kind = result.KindFile
	}
	it.Kind = kind

	switch kind {
	case result.KindApp:
		if e.IDEType != "" {
			it.Promotion = result.PromoteIDEProjects
			it.Value = e.IDEType
		}
	case result.KindUtility:
		it.Promotion = result.PromoteUtility
	case result.KindWebLink:
		if strings.Contains(e.Target, validation.QueryPlaceholder) {
			it.Promotion = result.PromoteWebLinkQuery
			it.Value = e.Target
			it.Target = siteRoot(e.Target)
		}
	case result.KindFile:
		if isDir(e.Target) {
			it.Promotion = result.PromoteFolderOpeners
		}
	}
	return it
}

// siteRoot is where a search template's site lives, opened when the link
// row is confirmed without a query.
func siteRoot(template string) string {
	if i := strings.Index(template, "://"); i != -1 {
		if j := strings.Index(template[i+3:], "/"); j != -1 {
			return template[:i+3+j]
		}
	}
	return strings.ReplaceAll(template, validation.QueryPlaceholder, "")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
