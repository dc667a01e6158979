package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/engine"
	"github.com/pders01/qlaunch/internal/keys"
	"github.com/pders01/qlaunch/internal/media"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/recency"
	"github.com/pders01/qlaunch/internal/search"
	"github.com/pders01/qlaunch/internal/tui"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	startMode  string
)

var rootCmd = &cobra.Command{
	Use:   "qlaunch",
	Short: "Keyboard-driven quick launcher",
	Long: `qlaunch finds and opens applications, files, web links, bookmarks,
two-factor codes and memes from a single query line.

Type to search, press tab to expand a row into its own mode and
enter to open the selection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLauncher,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug log level: off, error, warn, info, debug")
	rootCmd.Flags().StringVarP(&startMode, "mode", "m", "normal", "mode to open in: normal, bookmarks, 2fa, memes, favorites or utility:<id>")
}

func runLauncher(cmd *cobra.Command, _ []string) error {
	start, err := mode.Parse(startMode)
	if err != nil {
		return err
	}

	live, err := config.Watch(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := live.Config()
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer debuglog.Close()
	live.OnChange(func(*config.Config) {
		debuglog.Infof("config reloaded from %s", live.File())
	})

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	searcher, closeSearch := openSearcher(store, cfg)
	defer closeSearch()

	if err := provider.SeedCatalog(search.IndexedCatalog{Store: store, Searcher: searcher}, cfg.Web.Links); err != nil {
		debuglog.Warnf("seeding catalog: %v", err)
	}

	launcher := media.NewLauncher(cfg)
	registry := buildRegistry(cfg, store, searcher, launcher)

	seed, err := store.LoadRecency()
	if err != nil {
		debuglog.Warnf("loading recent items: %v", err)
	}
	tracker := recency.NewTracker(recency.DefaultCapacity, seed)

	eng := engine.New(live, registry, tracker, keys.NewRouter(overlayRune(cfg)))
	app := tui.NewApp(eng, cfg, launcher, store)
	app.StartIn(start)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// Rows confirmed by outcomes that failed to save still end up on disk.
	if err := store.SaveRecency(tracker.Records()); err != nil {
		debuglog.Warnf("saving recent items: %v", err)
	}
	return nil
}

// setupLogging applies the log level flag over the configured one.
func setupLogging(cfg *config.Config) error {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(level), cfg.Log.File); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	return nil
}

// overlayRune is the letter that opens quick actions with the modifier.
func overlayRune(cfg *config.Config) rune {
	if r := []rune(cfg.Keys.Bindings.QuickActions); len(r) == 1 {
		return r[0]
	}
	return 'k'
}
