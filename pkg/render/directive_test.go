package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pseudo/pkg/render"
)

func TestParseLiteralDirectives(t *testing.T) {
	lit := render.MustParseLiteral("%<a> %<@b.pseudo_type> %<.c> %<#d> %<e:join ', '> %<f:lines> %<g:blocks> %<h:semi> %<i:first>")

	want := []render.Directive{
		{Kind: render.DirectivePlain, Path: "a", Raw: "%<a>"},
		{Kind: render.DirectiveType, Path: "b.pseudo_type", Raw: "%<@b.pseudo_type>"},
		{Kind: render.DirectiveToggle, Path: "c", Raw: "%<.c>"},
		{Kind: render.DirectiveHook, Path: "d", Raw: "%<#d>"},
		{Kind: render.DirectiveList, Path: "e", Mode: render.ListJoin, Sep: ", ", Raw: "%<e:join ', '>"},
		{Kind: render.DirectiveList, Path: "f", Mode: render.ListLines, Raw: "%<f:lines>"},
		{Kind: render.DirectiveList, Path: "g", Mode: render.ListBlocks, Raw: "%<g:blocks>"},
		{Kind: render.DirectiveList, Path: "h", Mode: render.ListStatements, Raw: "%<h:semi>"},
		{Kind: render.DirectiveList, Path: "i", Mode: render.ListFirst, Raw: "%<i:first>"},
	}
	if diff := cmp.Diff(want, lit.Directives()); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLiteralQuotedSeparatorMayContainAngle(t *testing.T) {
	lit := render.MustParseLiteral(`%<args:join " >> ">`)
	got := lit.Directives()
	if len(got) != 1 || got[0].Sep != " >> " {
		t.Fatalf("unexpected directives: %+v", got)
	}
}

func TestParseLiteralNonASCIIText(t *testing.T) {
	lit := render.MustParseLiteral("«%<name>» → %<value>")
	got := lit.Directives()
	if len(got) != 2 || got[0].Path != "name" || got[1].Path != "value" {
		t.Fatalf("unexpected directives: %+v", got)
	}
}

func TestParseLiteralErrors(t *testing.T) {
	cases := map[string]string{
		"unknown modifier": "%<items:bogus>",
		"unnamed hook":     "%<#>",
		"unquoted join":    "%<items:join ,>",
		"empty path":       "%<:lines>",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := render.ParseLiteral(src)
			if !errors.Is(err, render.ErrInvalidTemplate) {
				t.Fatalf("expected ErrInvalidTemplate, got %v", err)
			}
		})
	}
}

func TestParseLiteralKeepsSource(t *testing.T) {
	src := "\n    if (%<test>) {\n        %<block:semi>\n    }\n"
	lit := render.MustParseLiteral(src)
	if lit.Source() != src {
		t.Fatalf("source not preserved: %q", lit.Source())
	}
}
