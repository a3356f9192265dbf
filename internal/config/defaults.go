package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel    = "info"
	DefaultJSONLog     = false
	DefaultUserAgent   = "TutorScraper/1.0 (https://github.com/law-makers/tutor-scraper)"
	DefaultHTTPTimeout = 10 * time.Second
	DefaultSitemapURL  = "https://openacademy.sydney.edu.au/sitemap.xml"
	DefaultPathFilter  = "/tutor/"
	DefaultOutputDir   = "data"
	DefaultEnvPrefix   = "TUTORS"
	DefaultProxyBench  = 5 * time.Minute
	MaxAttemptsLimit   = 10
)

// Profile carries the per-command pacing, retry and output defaults. Values
// set explicitly through a flag, the environment or a config file win over
// the profile.
type Profile struct {
	Name         string
	PageDelay    time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	OutputFile   string
}

var (
	// ScrapeProfile is used by the full profile scrape.
	ScrapeProfile = Profile{
		Name:         "scrape",
		PageDelay:    5 * time.Second,
		MaxAttempts:  3,
		RetryBackoff: 10 * time.Second,
		OutputFile:   "tutors.csv",
	}

	// IndexProfile is used by the lightweight name/URL index.
	IndexProfile = Profile{
		Name:         "index",
		PageDelay:    1 * time.Second,
		MaxAttempts:  1,
		RetryBackoff: 0,
		OutputFile:   "tutor_index.csv",
	}
)
