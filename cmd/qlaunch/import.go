package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/result"
	"github.com/pders01/qlaunch/internal/search"
	"github.com/pders01/qlaunch/internal/storage"
	"github.com/pders01/qlaunch/internal/validation"
)

// catalogFile is the document read by the import command.
type catalogFile struct {
	Entries   []*storage.Entry   `yaml:"entries"`
	Bookmarks []*storage.Bookmark `yaml:"bookmarks"`
	Accounts  []catalogAccount   `yaml:"accounts"`
}

type catalogAccount struct {
	Issuer string `yaml:"issuer"`
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
	Digits int    `yaml:"digits"`
	Period int    `yaml:"period"`
}

type catalogStore interface {
	SaveEntries(entries []*storage.Entry) error
	SaveBookmark(b *storage.Bookmark) error
	SaveAccount(a *storage.Account) error
}

// indexedStore saves entries through the search index and everything else
// straight to the store.
type indexedStore struct {
	*storage.Store
	entries search.IndexedCatalog
}

func (s indexedStore) SaveEntries(entries []*storage.Entry) error {
	return s.entries.SaveEntries(entries)
}

type importCounts struct {
	Entries   int
	Bookmarks int
	Accounts  int
}

func loadCatalogFile(path string) (*catalogFile, error) {
	path, err := validation.NewPermissivePathHandler().UserFile(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

// importCatalog validates every record of doc before saving any of them.
func importCatalog(store catalogStore, doc *catalogFile, now time.Time) (importCounts, error) {
	links := validation.NewLinkValidator()

	for i, e := range doc.Entries {
		if strings.TrimSpace(e.Title) == "" {
			return importCounts{}, fmt.Errorf("entry %d: missing title", i+1)
		}
		if !catalogKind(e.Kind) {
			return importCounts{}, fmt.Errorf("entry %q: unknown kind %q", e.Title, e.Kind)
		}
		if e.ID == "" {
			e.ID = e.Kind + ":" + uuid.NewString()
		}
		e.UpdatedAt = now
	}

	for _, b := range doc.Bookmarks {
		normalized, err := links.ValidateAndNormalize(b.URL)
		if err != nil {
			return importCounts{}, fmt.Errorf("bookmark %q: %w", b.Title, err)
		}
		b.URL = normalized
		if b.Title == "" {
			b.Title = normalized
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		b.CreatedAt = now
	}

	accounts := make([]*storage.Account, 0, len(doc.Accounts))
	for _, a := range doc.Accounts {
		acc, err := newAccount(a.Issuer, a.Name, a.Secret, a.Digits, a.Period, now)
		if err != nil {
			return importCounts{}, err
		}
		accounts = append(accounts, acc)
	}

	if len(doc.Entries) > 0 {
		if err := store.SaveEntries(doc.Entries); err != nil {
			return importCounts{}, fmt.Errorf("saving entries: %w", err)
		}
	}
	counts := importCounts{Entries: len(doc.Entries)}
	for _, b := range doc.Bookmarks {
		if err := store.SaveBookmark(b); err != nil {
			return counts, fmt.Errorf("saving bookmark %q: %w", b.Title, err)
		}
		counts.Bookmarks++
	}
	for _, a := range accounts {
		if err := store.SaveAccount(a); err != nil {
			return counts, fmt.Errorf("saving account %q: %w", a.Issuer, err)
		}
		counts.Accounts++
	}
	return counts, nil
}

// catalogKind reports whether kind can appear in the normal mode catalog.
func catalogKind(kind string) bool {
	if kind == provider.KindFolder {
		return true
	}
	k, ok := result.ParseKind(kind)
	if !ok {
		return false
	}
	switch k {
	case result.KindApp, result.KindFile, result.KindWebLink, result.KindUtility, result.KindSystemCommand:
		return true
	}
	return false
}

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import catalog entries, bookmarks and 2FA accounts",
	Long: `Import a YAML file with top-level "entries", "bookmarks" and
"accounts" lists. Records without an id get a new one; records with an
existing id replace the stored one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadCatalogFile(args[0])
		if err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		searcher, closeSearch := openSearcher(store, cfg)
		defer closeSearch()

		counts, err := importCatalog(indexedStore{
			Store:   store,
			entries: search.IndexedCatalog{Store: store, Searcher: searcher},
		}, doc, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries, %d bookmarks, %d accounts\n",
			counts.Entries, counts.Bookmarks, counts.Accounts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
