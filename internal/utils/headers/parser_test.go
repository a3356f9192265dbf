package headers

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	in := []string{"User-Agent: Bot", "Referer: https://example.com/", "BadHeader", ": empty"}
	out := ParseHeaders(in)
	expected := map[string]string{"User-Agent": "Bot", "Referer": "https://example.com/"}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

func TestParseHeaders_Empty(t *testing.T) {
	if out := ParseHeaders(nil); len(out) != 0 {
		t.Fatalf("expected empty map, got %#v", out)
	}
}
