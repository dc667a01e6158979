package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Launcher LauncherConfig `mapstructure:"launcher"`
	Domains  DomainsConfig  `mapstructure:"domains"`
	Web      WebConfig      `mapstructure:"web"`
	Memes    MemesConfig    `mapstructure:"memes"`
	IDE      IDEConfig      `mapstructure:"ide"`
	Folders  FoldersConfig  `mapstructure:"folders"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type LauncherConfig struct {
	StartExpanded  bool          `mapstructure:"start_expanded"`
	GridColumns    int           `mapstructure:"grid_columns"`
	SearchLimit    int           `mapstructure:"search_limit"`
	RecentLimit    int           `mapstructure:"recent_limit"`
	MemeDebounce   time.Duration `mapstructure:"meme_debounce"`
	NetworkTimeout time.Duration `mapstructure:"network_timeout"`
	PublicIPURL    string        `mapstructure:"public_ip_url"`
}

// DomainConfig holds the alias and enabled flag of an aliasable domain.
type DomainConfig struct {
	Alias   string `mapstructure:"alias"`
	Enabled bool   `mapstructure:"enabled"`
}

type DomainsConfig struct {
	Bookmarks DomainConfig `mapstructure:"bookmarks"`
	TwoFactor DomainConfig `mapstructure:"twofactor"`
	Memes     DomainConfig `mapstructure:"memes"`
	Favorites DomainConfig `mapstructure:"favorites"`
}

// SearchTemplate is a URL with a {query} placeholder.
type SearchTemplate struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type WebConfig struct {
	Fallback []SearchTemplate `mapstructure:"fallback"`
	// Links become WebLink catalog rows that can be promoted into a
	// query-suffix mode.
	Links []SearchTemplate `mapstructure:"links"`
}

type MemesConfig struct {
	Sources     []string      `mapstructure:"sources"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	MaxResults  int           `mapstructure:"max_results"`
}

type IDEConfig struct {
	ProjectsFile string `mapstructure:"projects_file"`
}

type FoldersConfig struct {
	Openers []string `mapstructure:"openers"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux"`
	Windows       MediaPlayers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaPlayers struct {
	Video []string `mapstructure:"video"`
	Image []string `mapstructure:"image"`
	Audio []string `mapstructure:"audio"`
	PDF   []string `mapstructure:"pdf"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	QuickActions string `mapstructure:"quick_actions"`
	Quit         string `mapstructure:"quit"`
	Help         string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".qlaunch")

	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "qlaunch.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "index.bleve"),
		},
		Launcher: LauncherConfig{
			StartExpanded:  true,
			GridColumns:    4,
			SearchLimit:    50,
			RecentLimit:    10,
			MemeDebounce:   300 * time.Millisecond,
			NetworkTimeout: 3 * time.Second,
			PublicIPURL:    "https://api.ipify.org",
		},
		Domains: DomainsConfig{
			Bookmarks: DomainConfig{Alias: "bm", Enabled: true},
			TwoFactor: DomainConfig{Alias: "2fa", Enabled: true},
			Memes:     DomainConfig{Alias: "meme", Enabled: true},
			Favorites: DomainConfig{Alias: "fav", Enabled: true},
		},
		Web: WebConfig{
			Fallback: []SearchTemplate{
				{Name: "Google", URL: "https://www.google.com/search?q={query}"},
				{Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q={query}"},
			},
			Links: []SearchTemplate{
				{Name: "GitHub", URL: "https://github.com/search?q={query}"},
				{Name: "Go Packages", URL: "https://pkg.go.dev/search?q={query}"},
			},
		},
		Memes: MemesConfig{
			Sources:     []string{"memes", "ProgrammerHumor"},
			HTTPTimeout: 10 * time.Second,
			UserAgent:   "qlaunch/1.0 (https://github.com/pders01/qlaunch)",
			MaxResults:  24,
		},
		IDE: IDEConfig{
			ProjectsFile: filepath.Join(dataDir, "projects.yaml"),
		},
		Folders: FoldersConfig{
			Openers: defaultFolderOpeners(),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video: []string{"iina", "mpv", "vlc"},
				Image: []string{"open"},
				Audio: []string{"mpv", "vlc", "open"},
				PDF:   []string{"open"},
			},
			Linux: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"sxiv", "feh", "eog", "xdg-open"},
				Audio: []string{"mpv", "vlc"},
				PDF:   []string{"zathura", "evince", "xdg-open"},
			},
			Windows: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"start"},
				Audio: []string{"mpv", "vlc"},
				PDF:   []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				QuickActions: "k",
				Quit:         "c",
				Help:         "g",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func defaultFolderOpeners() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", "code", "Terminal"}
	case "windows":
		return []string{"explorer", "code"}
	default:
		return []string{"xdg-open", "code", "nautilus"}
	}
}

func setDefaults(v *viper.Viper) {
	cfg := defaultConfig()
	v.SetDefault("database", cfg.Database)
	v.SetDefault("launcher", cfg.Launcher)
	v.SetDefault("domains", cfg.Domains)
	v.SetDefault("web", cfg.Web)
	v.SetDefault("memes", cfg.Memes)
	v.SetDefault("ide", cfg.IDE)
	v.SetDefault("folders", cfg.Folders)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)
}

func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("QLAUNCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	expandPaths(&config)
	return &config, nil
}

// DefaultDir is the directory searched for config.toml when no explicit
// path is given.
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "qlaunch")
}

func Load(configPath string) (*Config, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.IDE.ProjectsFile = expandPath(cfg.IDE.ProjectsFile)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings keep the TOML readable
	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	launcherCfg := map[string]interface{}{
		"start_expanded":  config.Launcher.StartExpanded,
		"grid_columns":    config.Launcher.GridColumns,
		"search_limit":    config.Launcher.SearchLimit,
		"recent_limit":    config.Launcher.RecentLimit,
		"meme_debounce":   config.Launcher.MemeDebounce.String(),
		"network_timeout": config.Launcher.NetworkTimeout.String(),
		"public_ip_url":   config.Launcher.PublicIPURL,
	}

	memesCfg := map[string]interface{}{
		"sources":      config.Memes.Sources,
		"http_timeout": config.Memes.HTTPTimeout.String(),
		"user_agent":   config.Memes.UserAgent,
		"max_results":  config.Memes.MaxResults,
	}

	v.Set("database", dbCfg)
	v.Set("launcher", launcherCfg)
	v.Set("domains", config.Domains)
	v.Set("web", config.Web)
	v.Set("memes", memesCfg)
	v.Set("ide", config.IDE)
	v.Set("folders", config.Folders)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
