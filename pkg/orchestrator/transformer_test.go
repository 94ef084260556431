package orchestrator_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/orchestrator"
)

func TestRenameTransformer_SkipsStringLiterals(t *testing.T) {
	preset, err := orchestrator.NewRenameTransformer(map[string]string{"delete": "delete_"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	module := ast.New(ast.KindModule, ast.Attrs{
		"definitions": ast.Nodes(ast.New(ast.KindFunctionDefinition, ast.Attrs{
			"name":        ast.String("delete"),
			"params":      ast.Nodes(),
			"return_type": ast.T("Void"),
			"block":       ast.Nodes(),
		})),
		"main": ast.Nodes(
			ast.New(ast.KindCall, ast.Attrs{
				"function": ast.String("delete"),
				"args":     ast.Nodes(ast.StringLit("delete")),
			}),
		),
	})

	if err := preset.Transform(context.Background(), module); err != nil {
		t.Fatalf("transform: %v", err)
	}

	defs, _ := module.Children("definitions")
	if name, _ := defs[0].Str("name"); name != "delete_" {
		t.Fatalf("definition name = %q", name)
	}
	main, _ := module.Children("main")
	if fn, _ := main[0].Str("function"); fn != "delete_" {
		t.Fatalf("call function = %q", fn)
	}
	args, _ := main[0].Children("args")
	if v, _ := args[0].Str("value"); v != "delete" {
		t.Fatalf("string literal rewritten to %q", v)
	}
}

func TestRenamePreset_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"no renames": "rename: {}\n",
		"blank name": "rename:\n  x: \"\"\n",
		"bad yaml":   "rename: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := orchestrator.NewRenamePreset([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := orchestrator.NewRenamePresetFromFS(nil, "x.yaml"); err == nil {
		t.Fatalf("expected error for nil fs")
	}
	if _, err := orchestrator.NewRenamePresetFromFS(fstest.MapFS{}, "x.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTransformerFunc_Nil(t *testing.T) {
	var fn orchestrator.TransformerFunc
	if err := fn.Transform(context.Background(), nil); err != nil {
		t.Fatalf("nil func returned %v", err)
	}
}
