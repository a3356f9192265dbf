package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	RegisterFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestLoad_ProfileDefaults(t *testing.T) {
	cfg, err := Load(newTestCmd(t), ScrapeProfile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PageDelay != 5*time.Second {
		t.Errorf("expected 5s delay, got %v", cfg.PageDelay)
	}
	if cfg.MaxAttempts != 3 || cfg.RetryBackoff != 10*time.Second {
		t.Errorf("expected 3 attempts / 10s backoff, got %d / %v", cfg.MaxAttempts, cfg.RetryBackoff)
	}
	if cfg.OutputDir != "data" || cfg.OutputFile != "tutors.csv" {
		t.Errorf("unexpected output %s/%s", cfg.OutputDir, cfg.OutputFile)
	}
	if cfg.SitemapURL != DefaultSitemapURL || cfg.PathFilter != "/tutor/" {
		t.Errorf("unexpected sitemap settings %q %q", cfg.SitemapURL, cfg.PathFilter)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info level, got %q", cfg.LogLevel)
	}

	idx, err := Load(newTestCmd(t), IndexProfile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if idx.PageDelay != time.Second || idx.MaxAttempts != 1 || idx.OutputFile != "tutor_index.csv" {
		t.Errorf("unexpected index profile values: %+v", idx)
	}
}

func TestLoad_FlagsOverride(t *testing.T) {
	cmd := newTestCmd(t,
		"--delay", "0s",
		"--retries", "2",
		"--backoff", "250ms",
		"--proxy", "http://p1:8080, http://p2:8080,",
		"-H", "Accept-Language: en",
		"-v",
	)

	cfg, err := Load(cmd, ScrapeProfile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PageDelay != 0 {
		t.Errorf("expected zero delay, got %v", cfg.PageDelay)
	}
	if cfg.MaxAttempts != 2 || cfg.RetryBackoff != 250*time.Millisecond {
		t.Errorf("unexpected retry settings %d %v", cfg.MaxAttempts, cfg.RetryBackoff)
	}
	if len(cfg.Proxies) != 2 || cfg.Proxies[1] != "http://p2:8080" {
		t.Errorf("unexpected proxies %#v", cfg.Proxies)
	}
	if cfg.Headers["Accept-Language"] != "en" {
		t.Errorf("expected header to be parsed, got %#v", cfg.Headers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug level, got %q", cfg.LogLevel)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tutors.yaml")
	content := "delay: 2s\nretries: 4\noutput-dir: from-file\nfilter: /instructor/\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TUTORS_RETRIES", "5")
	t.Setenv("TUTORS_OUTPUT_DIR", "from-env")

	cmd := newTestCmd(t, "--config", path, "--output-dir", "from-flag")
	cfg, err := Load(cmd, ScrapeProfile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PageDelay != 2*time.Second {
		t.Errorf("expected delay from file, got %v", cfg.PageDelay)
	}
	if cfg.PathFilter != "/instructor/" {
		t.Errorf("expected filter from file, got %q", cfg.PathFilter)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("expected env to beat file, got %d", cfg.MaxAttempts)
	}
	if cfg.OutputDir != "from-flag" {
		t.Errorf("expected flag to beat env, got %q", cfg.OutputDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][]string{
		"bad delay":   {"--delay", "soon"},
		"neg delay":   {"--delay", "-1s"},
		"too many":    {"--retries", "50"},
		"bad sitemap": {"--sitemap", "ftp://example.com/sitemap.xml"},
		"bad proxy":   {"--proxy", "localhost:8080"},
		"no timeout":  {"--timeout", "0s"},
		"missing cfg": {"--config", "/does/not/exist.yaml"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(newTestCmd(t, args...), ScrapeProfile); err == nil {
				t.Errorf("expected error for %v", args)
			}
		})
	}
}
