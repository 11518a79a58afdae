package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"xid/pkg/archiver"
	"xid/pkg/config"
	"xid/pkg/logger"
)

var (
	// Fetch command flags
	outputDir   string
	maxTweets   int
	rateLimit   int
	bearerToken string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <username> [output_directory] [start_date]",
	Short: "Download images from a user's recent tweets",
	Long: `Fetch a user's recent tweets (excluding retweets and replies), filter the
ones with photo attachments, and download each tweet's images into a folder
named after the tweet's creation time.

The optional start_date (YYYY-MM-DD) limits the export to tweets created on
or after that date.`,
	Example: `  # Download to the default "downloads" directory
  xid fetch jack

  # Custom output directory and start date
  xid fetch jack my_downloads 2025-01-15

  # Raise the tweet cap for a deeper export
  xid fetch jack --max-tweets 500`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		runFetch(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads (default: downloads)")
	fetchCmd.Flags().IntVar(&maxTweets, "max-tweets", config.DefaultMaxTweets, "maximum number of tweets to process")
	fetchCmd.Flags().IntVar(&rateLimit, "requests-per-minute", 60, "API requests per minute")
	fetchCmd.Flags().StringVar(&bearerToken, "bearer-token", "", "Twitter API bearer token (overrides TWITTER_BEARER_TOKEN)")
}

func runFetch(args []string) {
	username := strings.TrimSpace(args[0])

	// Build flags map from command line. The positional output directory
	// takes precedence over the --output flag, matching the invocation
	// shape xid <username> [output_directory] [start_date].
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if len(args) > 1 {
		flags["output"] = args[1]
	}
	if maxTweets != config.DefaultMaxTweets {
		flags["max-tweets"] = maxTweets
	}
	if rateLimit != 60 {
		flags["requests-per-minute"] = rateLimit
	}
	if bearerToken != "" {
		flags["bearer-token"] = bearerToken
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	startDate := ""
	if len(args) > 2 {
		startDate = args[2]
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	// A missing token is reported with guidance before any network call.
	if !cfg.HasCredentials() {
		fmt.Println("Error: Missing Twitter API credentials.")
		fmt.Println("Please set TWITTER_BEARER_TOKEN in your environment or .env file.")
		fmt.Println("You can get a Bearer Token from: https://developer.twitter.com/en/portal/dashboard")
		os.Exit(1)
	}

	log.WithField("username", username).Info("starting export")

	a := archiver.New(cfg)
	result, err := a.Run(context.Background(), username, startDate)
	if err != nil {
		log.WithError(err).WithField("username", username).Error("export failed")
		reportSummary(result)
		os.Exit(1)
	}

	switch result.Outcome {
	case archiver.OutcomeUserNotFound:
		fmt.Printf("Error: User @%s not found\n", username)
	default:
		fmt.Printf("Done! Processed %d tweets\n", result.TweetsProcessed)
		fmt.Printf("  Found %d tweets with images\n", result.TweetsWithImages)
		fmt.Printf("  Files saved to: %s\n", result.OutputDir)
	}
}

func reportSummary(result *archiver.Result) {
	if result == nil {
		return
	}
	fmt.Printf("Run ended early. Processed %d tweets, %d with images.\n",
		result.TweetsProcessed, result.TweetsWithImages)
	fmt.Println("Files already downloaded were left in place.")
}
