package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Launcher: LauncherConfig{
			StartExpanded:  true,
			GridColumns:    4,
			SearchLimit:    20,
			RecentLimit:    5,
			MemeDebounce:   10 * time.Millisecond,
			NetworkTimeout: 200 * time.Millisecond,
		},
		Domains: def.Domains,
		Web:     def.Web,
		Memes: MemesConfig{
			HTTPTimeout: 2 * time.Second,
			UserAgent:   "qlaunch-test/1.0",
			MaxResults:  8,
		},
		Folders: def.Folders,
		UI:      def.UI,
		Media:   def.Media,
		Keys:    def.Keys,
		Log:     LogConfig{Level: "off"},
	}
}
