package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/search"
	"github.com/pders01/qlaunch/internal/storage"
)

type entryStore interface {
	search.CatalogStore
	GetEntry(id string) (*storage.Entry, error)
}

// removeEntry deletes a catalog entry and drops it from the search index.
func removeEntry(store entryStore, searcher search.Searcher, id string) (*storage.Entry, error) {
	e, err := store.GetEntry(id)
	if err != nil {
		return nil, err
	}
	if err := (search.IndexedCatalog{Store: store, Searcher: searcher}).DeleteEntry(id); err != nil {
		return nil, fmt.Errorf("removing %s: %w", id, err)
	}
	return e, nil
}

var removeCmd = &cobra.Command{
	Use:     "remove <entry-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a catalog entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		e, err := removeEntry(store, searcher, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", e.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
