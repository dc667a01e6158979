package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/pders01/qlaunch/internal/alias"
)

// Settings is the read-only snapshot the launcher engine takes on every
// mode entry.
type Settings struct {
	StartExpanded  bool
	GridColumns    int
	SearchLimit    int
	RecentLimit    int
	MemeDebounce   time.Duration
	NetworkTimeout time.Duration
	PublicIPURL    string
	Aliases        map[alias.Domain]alias.Config
	Fallback       []SearchTemplate
	Openers        []string
	MemeSources    []string
	MemeMaxResults int
}

// Source hands out the current Settings.
type Source interface {
	Settings() Settings
}

// Settings derives the engine snapshot from the loaded config.
func (c *Config) Settings() Settings {
	// A partially written [launcher] section leaves the rest zeroed.
	def := defaultConfig().Launcher
	return Settings{
		StartExpanded:  c.Launcher.StartExpanded,
		GridColumns:    orInt(c.Launcher.GridColumns, def.GridColumns),
		SearchLimit:    orInt(c.Launcher.SearchLimit, def.SearchLimit),
		RecentLimit:    orInt(c.Launcher.RecentLimit, def.RecentLimit),
		MemeDebounce:   orDuration(c.Launcher.MemeDebounce, def.MemeDebounce),
		NetworkTimeout: orDuration(c.Launcher.NetworkTimeout, def.NetworkTimeout),
		PublicIPURL:    orString(c.Launcher.PublicIPURL, def.PublicIPURL),
		Aliases: map[alias.Domain]alias.Config{
			alias.Bookmarks: {Alias: c.Domains.Bookmarks.Alias, Enabled: c.Domains.Bookmarks.Enabled},
			alias.TwoFactor: {Alias: c.Domains.TwoFactor.Alias, Enabled: c.Domains.TwoFactor.Enabled},
			alias.Memes:     {Alias: c.Domains.Memes.Alias, Enabled: c.Domains.Memes.Enabled},
			alias.Favorites: {Alias: c.Domains.Favorites.Alias, Enabled: c.Domains.Favorites.Enabled},
		},
		Fallback:       append([]SearchTemplate(nil), c.Web.Fallback...),
		Openers:        append([]string(nil), c.Folders.Openers...),
		MemeSources:    append([]string(nil), c.Memes.Sources...),
		MemeMaxResults: orInt(c.Memes.MaxResults, 24),
	}
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

// Enabled reports whether the given domain is switched on.
func (s Settings) Enabled(d alias.Domain) bool {
	c, ok := s.Aliases[d]
	return ok && c.Enabled
}

// StaticSource serves a fixed, mutable Settings value.
type StaticSource struct {
	Value Settings
	Reads int
}

func (s *StaticSource) Settings() Settings {
	s.Reads++
	return s.Value
}

// Live keeps a Config in sync with its file on disk.
type Live struct {
	mu       sync.RWMutex
	v        *viper.Viper
	cfg      *Config
	onChange []func(*Config)
}

// Watch loads configPath like Load and then follows changes to the file.
// A change that fails to decode keeps the previous config.
func Watch(configPath string) (*Live, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	l := &Live{v: v, cfg: cfg}
	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(fsnotify.Event) { l.reload() })
		v.WatchConfig()
	}
	return l, nil
}

func (l *Live) reload() {
	cfg, err := decode(l.v)
	if err != nil {
		return
	}
	l.mu.Lock()
	l.cfg = cfg
	listeners := append([]func(*Config){}, l.onChange...)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}
}

// OnChange registers fn to run after each successful reload.
func (l *Live) OnChange(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Config returns the current config.
func (l *Live) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Settings implements Source.
func (l *Live) Settings() Settings {
	return l.Config().Settings()
}

// File returns the config file in use, empty when running on defaults.
func (l *Live) File() string {
	return l.v.ConfigFileUsed()
}
