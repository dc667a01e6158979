package main

import (
	"fmt"
	"net/http"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/feed"
	"github.com/pders01/qlaunch/internal/media"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/search"
	"github.com/pders01/qlaunch/internal/storage"
	"github.com/pders01/qlaunch/internal/validation"
)

// openStore opens the database named by --db or the config.
func openStore(cfg *config.Config) (*storage.Store, error) {
	path := cfg.Database.Path
	if dbPath != "" {
		path = dbPath
	}
	path, err := validation.NewPermissivePathHandler().DBPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	store, err := storage.NewStoreWithTimeout(path, cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openIndex opens the bleve index of the catalog, building it from store
// on first use.
func openIndex(store *storage.Store, cfg *config.Config) (*search.BleveEngine, error) {
	path, err := validation.NewPermissivePathHandler().IndexPath(cfg.Database.SearchIndex)
	if err != nil {
		return nil, fmt.Errorf("invalid index path: %w", err)
	}
	return search.NewBleveEngine(store, path)
}

// openSearcher prefers the bleve index and falls back to the in-memory
// engine when the index cannot be opened.
func openSearcher(store *storage.Store, cfg *config.Config) (search.Searcher, func()) {
	be, err := openIndex(store, cfg)
	if err != nil {
		debuglog.Warnf("search index unavailable, using in-memory search: %v", err)
		return search.NewEngine(store), func() {}
	}
	return be, func() {
		if err := be.Close(); err != nil {
			debuglog.Warnf("closing search index: %v", err)
		}
	}
}

func buildRegistry(cfg *config.Config, store *storage.Store, searcher search.Searcher, launcher *media.Launcher) *provider.Registry {
	r := provider.NewRegistry()
	r.Register(mode.KindNormal, provider.NewCatalog(searcher))
	r.SetFallback(provider.NewWebSearch())

	r.Register(mode.KindIDEProjects, provider.NewIDE())
	r.SetProjects(provider.YAMLProjects{Path: cfg.IDE.ProjectsFile})
	r.Register(mode.KindFolderOpeners, provider.NewFolderOpeners(launcher.Openers()))
	r.Register(mode.KindWebLinkQuery, provider.NewWebLink())
	r.Register(mode.KindUtility, provider.NewUtilities(&http.Client{Timeout: cfg.Launcher.NetworkTimeout}))

	r.Register(mode.KindBookmarks, provider.NewBookmarks(store))
	r.Register(mode.KindTwoFactor, provider.NewTwoFactor(store))
	r.Register(mode.KindMemeSearch, provider.NewMemes(feed.NewManager(store, cfg, nil), store))
	r.Register(mode.KindMemeFavorites, provider.NewFavorites(store))
	return r
}
