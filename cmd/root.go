package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/studio-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	storePath   string
	backendName string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studio-session",
	Short: "Inspect and manage content studio session state",
	Long: `Operator CLI for the content studio session engine.

The engine keeps the working session (brand voice, topic, delivery snapshot,
article, social posts, podcast) in a durable key-value store and mirrors it
into an archive of restorable entries.

Quick Start:
  studio-session status                  # Show the current session
  studio-session topic set "Pricing"     # Start work on a topic
  studio-session archive list            # List archived sessions
  studio-session archive restore <id>    # Continue an archived session

Storage defaults to a SQLite file; see 'studio-session config init'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/studio-session/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Override the SQLite store path")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Override the store backend (sqlite, redis, memory)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
