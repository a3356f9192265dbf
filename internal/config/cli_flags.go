package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag names, shared with viper keys and TUTORS_* environment variables.
const (
	FlagVerbose   = "verbose"
	FlagQuiet     = "quiet"
	FlagJSON      = "json"
	FlagConfig    = "config"
	FlagTimeout   = "timeout"
	FlagUserAgent = "user-agent"
	FlagProxy     = "proxy"
	FlagHeader    = "header"
	FlagSitemap   = "sitemap"
	FlagFilter    = "filter"
	FlagDelay     = "delay"
	FlagRetries   = "retries"
	FlagBackoff   = "backoff"
	FlagOutputDir = "output-dir"
)

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	flags := cmd.PersistentFlags()
	flags.BoolP(FlagVerbose, "v", false, "Enable debug logging")
	flags.BoolP(FlagQuiet, "q", false, "Suppress all output except errors")
	flags.Bool(FlagJSON, false, "Emit logs as JSON")
	flags.String(FlagConfig, "", "Path to configuration file (optional)")
	flags.String(FlagTimeout, DefaultHTTPTimeout.String(), "Per-request HTTP timeout")
	flags.String(FlagUserAgent, "", "Custom user agent string")
	flags.String(FlagProxy, "", "HTTP/SOCKS5 proxies, comma separated (rotated per request)")
	flags.StringArrayP(FlagHeader, "H", []string{}, "Extra request headers (e.g., -H \"Accept-Language: en\")")
	flags.String(FlagSitemap, DefaultSitemapURL, "Sitemap to read tutor URLs from")
	flags.String(FlagFilter, DefaultPathFilter, "Only keep sitemap URLs containing this path")
	flags.String(FlagDelay, "", "Delay before each page request (default depends on command)")
	flags.Int(FlagRetries, 0, "Attempts per page, 1 disables retry (default depends on command)")
	flags.String(FlagBackoff, "", "Wait between retry attempts (default depends on command)")
	flags.String(FlagOutputDir, DefaultOutputDir, "Directory the CSV file is written to")
}

// flagChanged reports whether name was set explicitly on the command line.
func flagChanged(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
