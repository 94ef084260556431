package target_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/render"
	"github.com/goliatone/go-pseudo/pkg/target"
)

const miniDoc = `
name: mini
extension: .mini
line_comment: "#"
indent: 2
terminator: ";"
block_statements: [if_statement]
passes: [declaration]
preamble: banner
types:
  Int: int
unsupported: [with_statement]
templates:
  module: |
    %<main:semi>
  local: "%<name>"
  int: "%<value>"
  assignment:
    switch:
      flag: first_mention
      cases:
        "true": "let %<target> = %<value>"
        "false": "%<target> = %<value>"
  if_statement:
    literal: |
      if %<test> {
          %<block:semi>
      }%<.otherwise>
    toggles:
      otherwise: [" else %<otherwise>", ""]
  else_statement: |
    {
        %<block:semi>
    }
`

const miniBanner = "{% if banner %}{{ line_comment }} generated for {{ target }}{% if source %} from {{ source }}{% endif %}{% endif %}\n" +
	"{% if header %}{{ header|comment:line_comment }}{% endif %}\n"

func miniFS() fstest.MapFS {
	return fstest.MapFS{
		"mini.yaml":  {Data: []byte(miniDoc)},
		"banner.tpl": {Data: []byte(miniBanner)},
	}
}

func loadMini(t *testing.T, options ...target.Option) *target.Generator {
	t.Helper()
	doc, err := target.Load(miniFS(), "mini.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	gen, err := target.New(doc, options...)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return gen
}

func miniModule() *ast.Node {
	x := func() *ast.Node { return ast.Local("x", ast.T("Int")) }
	return ast.New(ast.KindModule, ast.Attrs{
		"main": ast.Nodes(
			ast.Assign(x(), ast.IntLit(1)),
			ast.Assign(x(), ast.IntLit(2)),
			ast.New(ast.KindIfStatement, ast.Attrs{
				"test":  x(),
				"block": ast.Nodes(ast.Assign(ast.Local("y", ast.T("Int")), ast.IntLit(3))),
				"otherwise": ast.New(ast.KindElseStatement, ast.Attrs{
					"block": ast.Nodes(ast.Assign(x(), ast.IntLit(4))),
				}),
			}),
		),
	})
}

func TestGenerator_Generate(t *testing.T) {
	gen := loadMini(t)
	if gen.Name() != "mini" || gen.Extension() != ".mini" {
		t.Fatalf("unexpected identity %q %q", gen.Name(), gen.Extension())
	}

	got, err := gen.Generate(context.Background(), miniModule(), target.Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "let x = 1;\n" +
		"x = 2;\n" +
		"if x {\n" +
		"  let y = 3;\n" +
		"} else {\n" +
		"  x = 4;\n" +
		"}\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerator_Preamble(t *testing.T) {
	gen := loadMini(t)

	got, err := gen.Generate(context.Background(), miniModule(), target.Options{
		Source: "demo.yaml",
		Header: "Copyright ACME\nAll rights reserved.",
		Banner: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	wantPrefix := "# generated for mini from demo.yaml\n# Copyright ACME\n# All rights reserved.\n\nlet x = 1;\n"
	if !strings.HasPrefix(string(got), wantPrefix) {
		t.Fatalf("unexpected preamble:\n%s", got)
	}
}

func TestGenerator_DoesNotMutateInput(t *testing.T) {
	gen := loadMini(t)
	module := miniModule()
	before := ast.Clone(module)

	if _, err := gen.Generate(context.Background(), module, target.Options{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff(before, module); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestGenerator_Errors(t *testing.T) {
	gen := loadMini(t)

	if _, err := gen.Generate(context.Background(), ast.Local("x", nil), target.Options{}); err == nil {
		t.Fatalf("expected error for a non-module root")
	}

	withBlock := ast.New(ast.KindModule, ast.Attrs{
		"main": ast.Nodes(ast.New(ast.KindWithStatement, nil)),
	})
	_, err := gen.Generate(context.Background(), withBlock, target.Options{})
	if !errors.Is(err, render.ErrUnsupportedConstruct) {
		t.Fatalf("expected ErrUnsupportedConstruct, got %v", err)
	}
	var rerr *render.Error
	if !errors.As(err, &rerr) || rerr.Path != "main[0]" {
		t.Fatalf("expected error at main[0], got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gen.Generate(ctx, miniModule(), target.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_ReportsTemplateProblems(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"missing hook": {
			doc:  "name: x\ntemplates:\n  function_definition: \"%<name>(%<#params>)\"\n",
			want: render.ErrMissingHook,
		},
		"switch without fallback": {
			doc: "name: x\ntemplates:\n  unary_op:\n    switch:\n      value: op\n      cases:\n        not: \"!%<value>\"\n",
			want: render.ErrInvalidTemplate,
		},
		"switch with two selectors": {
			doc: "name: x\ntemplates:\n  unary_op:\n    switch:\n      value: op\n      flag: negated\n      cases:\n        _otherwise: \"%<value>\"\n",
			want: render.ErrInvalidTemplate,
		},
		"bad directive": {
			doc:  "name: x\ntemplates:\n  list: \"%<elements:bogus>\"\n",
			want: render.ErrInvalidTemplate,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := target.Parse([]byte(tc.doc), name)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if _, err := target.New(doc); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNew_UnknownPass(t *testing.T) {
	doc, err := target.Parse([]byte("name: x\npasses: [bogus]\n"), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := target.New(doc); err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected unknown pass error, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":              "   ",
		"no name":            "extension: .x\n",
		"literal and switch": "name: x\ntemplates:\n  local:\n    literal: \"%<name>\"\n    switch:\n      flag: f\n",
		"template is a list": "name: x\ntemplates:\n  local: [a, b]\n",
		"malformed yaml":     "name: [x\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := target.Parse([]byte(src), name); err == nil {
				t.Fatalf("expected parse error")
			}
		})
	}
}

func TestParse_ToggleArity(t *testing.T) {
	doc, err := target.Parse([]byte("name: x\ntemplates:\n  explicit_return:\n    literal: \"return%<.value>\"\n    toggles:\n      value: [\" %<value>\"]\n"), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := target.New(doc); err == nil {
		t.Fatalf("expected toggle arity error")
	}
}

const switchToggleDoc = `
name: x
templates:
  explicit_return:
    switch:
      flag: tail
      cases:
        "true":
          literal: "return%<.value>"
          toggles:
            value: [" %<value>", ""]
        "false": "exit"
  int: "%<value>"
`

func TestNew_SwitchCaseToggles(t *testing.T) {
	doc, err := target.Parse([]byte(switchToggleDoc), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	gen, err := target.New(doc)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	cases := []struct {
		name string
		node *ast.Node
		want string
	}{
		{"tail with value", ast.New(ast.KindExplicitReturn, ast.Attrs{"tail": ast.Bool(true), "value": ast.IntLit(1)}), "return 1"},
		{"tail without value", ast.New(ast.KindExplicitReturn, ast.Attrs{"tail": ast.Bool(true)}), "return"},
		{"not tail", ast.New(ast.KindExplicitReturn, ast.Attrs{"tail": ast.Bool(false)}), "exit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := gen.Engine().Render(tc.node, 0)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNew_ConflictingCaseToggles(t *testing.T) {
	src := strings.Replace(switchToggleDoc, `"false": "exit"`, `"false":
          literal: "exit%<.value>"
          toggles:
            value: ["(%<value>)", ""]`, 1)
	doc, err := target.Parse([]byte(src), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = target.New(doc)
	if err == nil || !strings.Contains(err.Error(), "declared twice") {
		t.Fatalf("expected conflicting toggle error, got %v", err)
	}
}

func TestNew_RegistryOptions(t *testing.T) {
	gen := loadMini(t, target.WithRegistryOptions(render.WithUnsupported(ast.KindWhileStatement)))

	want := []ast.Kind{ast.KindWhileStatement, ast.KindWithStatement}
	if diff := cmp.Diff(want, gen.Engine().Registry().Unsupported()); diff != "" {
		t.Fatalf("unsupported kinds mismatch (-want +got):\n%s", diff)
	}

	loop := ast.New(ast.KindWhileStatement, ast.Attrs{"test": ast.Local("x", ast.T("Int"))})
	_, err := gen.Engine().Render(loop, 0)
	var rerr *render.Error
	if !errors.As(err, &rerr) || !errors.Is(err, render.ErrUnsupportedConstruct) {
		t.Fatalf("expected ErrUnsupportedConstruct, got %v", err)
	}
	if rerr.Detail != "declared unsupported by the target" {
		t.Fatalf("unexpected detail %q", rerr.Detail)
	}
}
