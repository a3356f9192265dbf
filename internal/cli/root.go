package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/tutor-scraper/internal/app"
	"github.com/law-makers/tutor-scraper/internal/config"
	"github.com/law-makers/tutor-scraper/internal/ui"
	"github.com/law-makers/tutor-scraper/internal/utils/output"
)

var scrapeLimit int

// rootCmd runs the full profile scrape when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "tutor-scraper",
	Short: "Scrape tutor profiles from a sitemap into CSV",
	Long: `Tutor Scraper reads a sitemap, visits every tutor profile page it lists,
and writes one CSV row per tutor: name, biography, and the labelled
Teaching, Levels, Ages, Genres and Available fields.

Pages that cannot be fetched or parsed still get a row with a placeholder
description, so the output always has one row per sitemap entry.`,
	Example: `  # Scrape every tutor into data/tutors.csv
  tutor-scraper

  # Only the first 10 tutors, faster pacing
  tutor-scraper --limit 10 --delay 1s

  # A different sitemap and output directory
  tutor-scraper --sitemap https://example.edu/sitemap.xml --output-dir out`,
	Version:      "0.1.0",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runScrape,
}

// Execute runs the root command with ctx and exits non-zero on failure.
// It is called by main.main().
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.Flags().IntVar(&scrapeLimit, "limit", 0, "Only process the first N tutor URLs (0 = all)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	ui.SetEnabled(ui.ShouldColor(os.Stdout))
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)

	// The application is initialized lazily so -h and --version stay cheap.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd, profileFor(cmd))
		if err != nil {
			return err
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a := GetApp(cmd); a != nil {
			_ = a.Close()
		}
	}
}

// profileFor picks the pacing and output defaults for the executing command.
func profileFor(cmd *cobra.Command) config.Profile {
	if cmd.Name() == indexCmd.Name() {
		return config.IndexProfile
	}
	return config.ScrapeProfile
}

func runScrape(cmd *cobra.Command, args []string) error {
	return runDataset(cmd, scrapeLimit, output.FullSchema)
}

// runDataset runs the sitemap to CSV pipeline and prints a summary.
func runDataset(cmd *cobra.Command, limit int, schema output.Schema) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	bar := newProgressBar(os.Stderr, a.Config)
	res, err := a.Run(cmd.Context(), app.RunOptions{
		Limit:    limit,
		Schema:   schema,
		Progress: bar.Progress(),
	})
	bar.Finish()
	if err != nil {
		return err
	}

	if a.Config.LogLevel != "error" {
		printSummary(cmd.OutOrStdout(), res)
	}
	return nil
}

func printSummary(w io.Writer, res *app.Result) {
	fmt.Fprintf(w, "\n%s Saved %d records to %s\n", ui.Success("✓"), res.Stats.Processed, ui.Bold(res.Path))
	if failed := res.Stats.FetchFailures + res.Stats.ExtractFailures; failed > 0 {
		fmt.Fprintf(w, "  %s\n", ui.Error(fmt.Sprintf("%d fetch failures, %d extract failures",
			res.Stats.FetchFailures, res.Stats.ExtractFailures)))
	}
	fmt.Fprintf(w, "  %s\n", ui.Info(fmt.Sprintf("%d tutor URLs in sitemap, finished in %s",
		res.URLs, res.Duration.Round(time.Second))))
}
