package config

import (
	"fmt"

	urlutil "github.com/law-makers/tutor-scraper/internal/utils/url"
)

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("delay must be >= 0")
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > MaxAttemptsLimit {
		return fmt.Errorf("retries must be between 1 and %d", MaxAttemptsLimit)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("backoff must be >= 0")
	}
	if err := urlutil.ValidateURL(c.SitemapURL); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	if c.PathFilter == "" {
		return fmt.Errorf("filter must not be empty")
	}
	if c.OutputDir == "" || c.OutputFile == "" {
		return fmt.Errorf("output directory and file must be set")
	}
	for _, p := range c.Proxies {
		if err := urlutil.ValidateProxy(p); err != nil {
			return err
		}
	}
	return nil
}
