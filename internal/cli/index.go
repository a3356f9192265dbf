package cli

import (
	"github.com/spf13/cobra"

	"github.com/law-makers/tutor-scraper/internal/utils/output"
)

var indexLimit int

// indexCmd writes the lightweight name and URL listing
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Write a Name, URL index of tutors",
	Long: `Builds a minimal index of tutor names and profile URLs into
data/tutor_index.csv. Pages are fetched once each with a shorter delay
than the full scrape.`,
	Example: `  # Index every tutor
  tutor-scraper index

  # Index the first 25 tutors
  tutor-scraper index --limit 25`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDataset(cmd, indexLimit, output.IndexSchema)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().IntVar(&indexLimit, "limit", 0, "Only process the first N tutor URLs (0 = all)")
}
