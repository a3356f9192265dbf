package headers

import (
	"strings"
)

// ParseHeaders converts "Key: Value" lines into a map. Lines without a colon
// or with an empty key are skipped; later duplicates win.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string)
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		m[key] = strings.TrimSpace(value)
	}
	return m
}
