package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	headersutil "github.com/law-makers/tutor-scraper/internal/utils/headers"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP
	HTTPTimeout time.Duration
	UserAgent   string
	Proxies     []string
	ProxyBench  time.Duration
	Headers     map[string]string

	// Sitemap
	SitemapURL string
	PathFilter string

	// Pacing and retry
	PageDelay    time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration

	// Output
	OutputDir  string
	OutputFile string
}

// Load builds a Config by combining the profile defaults, an optional config
// file, TUTORS_* environment variables, and CLI flags, in increasing order of
// precedence. Caller should pass the executing *cobra.Command so flags can be
// read.
func Load(cmd *cobra.Command, profile Profile) (*Config, error) {
	v := viper.New()
	v.SetDefault(FlagTimeout, DefaultHTTPTimeout.String())
	v.SetDefault(FlagUserAgent, DefaultUserAgent)
	v.SetDefault(FlagSitemap, DefaultSitemapURL)
	v.SetDefault(FlagFilter, DefaultPathFilter)
	v.SetDefault(FlagOutputDir, DefaultOutputDir)
	v.SetDefault(FlagDelay, profile.PageDelay.String())
	v.SetDefault(FlagRetries, profile.MaxAttempts)
	v.SetDefault(FlagBackoff, profile.RetryBackoff.String())

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		LogLevel:    DefaultLogLevel,
		JSONLog:     v.GetBool(FlagJSON),
		UserAgent:   v.GetString(FlagUserAgent),
		ProxyBench:  DefaultProxyBench,
		SitemapURL:  strings.TrimSpace(v.GetString(FlagSitemap)),
		PathFilter:  v.GetString(FlagFilter),
		MaxAttempts: v.GetInt(FlagRetries),
		OutputDir:   v.GetString(FlagOutputDir),
		OutputFile:  profile.OutputFile,
	}

	switch {
	case v.GetBool(FlagVerbose):
		cfg.LogLevel = "debug"
	case v.GetBool(FlagQuiet):
		cfg.LogLevel = "error"
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, FlagTimeout); err != nil {
		return nil, err
	}
	if cfg.PageDelay, err = duration(v, FlagDelay); err != nil {
		return nil, err
	}
	if cfg.RetryBackoff, err = duration(v, FlagBackoff); err != nil {
		return nil, err
	}

	cfg.Proxies = lo.Compact(lo.Map(strings.Split(v.GetString(FlagProxy), ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))

	headerLines := v.GetStringSlice(FlagHeader)
	if cmd != nil && flagChanged(cmd.Flags(), FlagHeader) {
		if headerLines, err = cmd.Flags().GetStringArray(FlagHeader); err != nil {
			return nil, err
		}
	}
	cfg.Headers = headersutil.ParseHeaders(headerLines)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}
