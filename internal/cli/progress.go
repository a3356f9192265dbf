package cli

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/law-makers/tutor-scraper/internal/config"
	"github.com/law-makers/tutor-scraper/internal/dataset"
)

// progressBar renders dataset progress on a terminal. When disabled the
// builder falls back to logging each URL.
type progressBar struct {
	w       io.Writer
	enabled bool
	bar     *progressbar.ProgressBar
}

func newProgressBar(w io.Writer, cfg *config.Config) *progressBar {
	enabled := !cfg.JSONLog && cfg.LogLevel == "info"
	if f, ok := w.(*os.File); ok {
		enabled = enabled && isatty.IsTerminal(f.Fd())
	}
	return &progressBar{w: w, enabled: enabled}
}

// Progress returns the callback for the dataset builder, or nil to keep the
// default logging.
func (p *progressBar) Progress() dataset.Progress {
	if !p.enabled {
		return nil
	}
	return p.update
}

func (p *progressBar) update(index, total int, pageURL string) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("Scraping tutors"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	log.Debug().Msgf("Processing %d of %d: %s", index, total, pageURL)
	_ = p.bar.Set(index - 1)
}

// Finish completes the bar if one was started.
func (p *progressBar) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
