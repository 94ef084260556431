package main

import (
	"testing"

	"github.com/goliatone/go-pseudo/pkg/source"
)

func TestParseSource(t *testing.T) {
	cases := []struct {
		raw  string
		kind source.Kind
	}{
		{"trees/a.yaml", source.KindFile},
		{"  trees/a.yaml ", source.KindFile},
		{"https://example.com/a.yaml", source.KindURL},
		{"http://localhost:8080/a.json", source.KindURL},
	}
	for _, tc := range cases {
		src, err := parseSource(tc.raw)
		if err != nil {
			t.Fatalf("parseSource(%q): %v", tc.raw, err)
		}
		if src.Kind() != tc.kind {
			t.Fatalf("parseSource(%q) kind = %q, want %q", tc.raw, src.Kind(), tc.kind)
		}
	}
	if _, err := parseSource(" "); err == nil {
		t.Fatalf("expected error for blank input")
	}
}
