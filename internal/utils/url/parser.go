package urlutil

import (
	"fmt"
	"net/url"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ValidateProxy checks that a proxy address is an absolute http, https or
// socks5 URL.
func ValidateProxy(proxyStr string) error {
	parsed, err := url.Parse(proxyStr)
	if err != nil {
		return fmt.Errorf("invalid proxy: %w", err)
	}

	switch parsed.Scheme {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("invalid proxy scheme: must be http, https or socks5, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid proxy: missing host")
	}

	return nil
}

// ResolveURL resolves a possibly-relative href against a base URL and returns a string
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}
