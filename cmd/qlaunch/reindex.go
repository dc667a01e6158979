package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/search"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the catalog search index",
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		ri, ok := searcher.(search.Reindexer)
		if !ok {
			return fmt.Errorf("search index unavailable, see the debug log")
		}
		if err := provider.SeedCatalog(search.IndexedCatalog{Store: store, Searcher: searcher}, cfg.Web.Links); err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
		if err := ri.Reindex(); err != nil {
			return err
		}

		if st, ok := searcher.(search.DebugStatser); ok {
			n, err := st.DocCount()
			if err != nil {
				return fmt.Errorf("counting documents: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d catalog entries\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
