package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/tutor-scraper/internal/ui"
	urlutil "github.com/law-makers/tutor-scraper/internal/utils/url"
	"github.com/law-makers/tutor-scraper/pkg/models"
)

// showCmd extracts a single profile page and prints the record
var showCmd = &cobra.Command{
	Use:   "show <url>",
	Short: "Extract one tutor page and print the result",
	Long: `Fetches a single tutor profile page and prints the fields that would be
written to the CSV. Useful for checking extraction against a page without
running the whole sitemap.`,
	Example: `  tutor-scraper show https://openacademy.sydney.edu.au/tutor/jane-doe --delay 0s`,
	Args:    cobra.ExactArgs(1),
	RunE:    runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	pageURL := strings.TrimSpace(args[0])
	if err := urlutil.ValidateURL(pageURL); err != nil {
		return err
	}

	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	rec, err := a.Profile(cmd.Context(), pageURL)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", pageURL, err)
	}

	printRecord(cmd.OutOrStdout(), rec)
	return nil
}

func printRecord(w io.Writer, rec *models.TutorRecord) {
	fields := []struct{ label, value string }{
		{"URL", rec.URL},
		{"Title", rec.Name},
		{"Teaching", rec.Teaching},
		{"Levels", rec.Levels},
		{"Ages", rec.Ages},
		{"Genres", rec.Genres},
		{"Available", rec.Available},
	}

	fmt.Fprintln(w)
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = ui.Info("-")
		}
		fmt.Fprintf(w, "%s%-11s%s %s\n", ui.ColorBold, f.label+":", ui.ColorReset, value)
	}
	fmt.Fprintf(w, "\n%sDescription%s\n%s\n\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset, rec.Description)
}
