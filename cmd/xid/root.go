package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xid",
	Short: "Download a Twitter/X user's tweet images to local folders",
	Long: `xid exports the photos attached to a user's recent tweets.

Each tweet with images gets its own folder named after the tweet's creation
time, containing the original-quality images and a tweet.txt record of the
tweet's id, timestamp, author, text, and image URLs.

A Twitter API v2 bearer token is required, read from the
TWITTER_BEARER_TOKEN environment variable or a local .env file.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .xid.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`xid {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Allow the bare invocation `xid <username> [output_dir] [start_date]`
	// without the fetch subcommand.
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Println("Usage: xid <username> [output_directory] [start_date]")
			fmt.Println()
			fmt.Println("Example: xid jack")
			fmt.Println("         xid jack my_downloads")
			fmt.Println("         xid jack my_downloads 2025-01-15")
			os.Exit(1)
		}
		if isKnownCommand(args[0]) {
			return cmd.Help()
		}
		return fetchCmd.RunE(fetchCmd, args)
	}
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
