package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/qlaunch/internal/tui"
)

var showBanner bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		if showBanner {
			tui.ShowBanner(Version)
		}
		fmt.Printf("%s %s\n", tui.AppName, Version)
		fmt.Println("Quick launcher")
		fmt.Println("github.com/pders01/qlaunch")
	},
}

func init() {
	versionCmd.Flags().BoolVar(&showBanner, "banner", false, "print the logo banner")
	rootCmd.AddCommand(versionCmd)
}
