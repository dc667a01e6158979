package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/qlaunch/internal/config"
)

var overwriteConfig bool

var configGenCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default configuration file",
	Long: `Write the default configuration to --config, or to
~/.config/qlaunch/config.toml when no path is given. An existing file is
left alone unless --force is set.`,
	Run: func(_ *cobra.Command, _ []string) {
		path := configPath
		if path == "" {
			path = filepath.Join(config.DefaultDir(), "config.toml")
		}
		if _, err := os.Stat(path); err == nil && !overwriteConfig {
			fmt.Printf("Configuration already exists at: %s (use --force to overwrite)\n", path)
			return
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

func init() {
	configGenCmd.Flags().BoolVarP(&overwriteConfig, "force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(configGenCmd)
}
