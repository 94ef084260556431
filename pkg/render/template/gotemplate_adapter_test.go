package template_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pseudo/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pseudo/pkg/testsupport"
)

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()
	files := fstest.MapFS{
		"banner.tpl": {Data: []byte(`{{ marker }} generated for {{ target }}`)},
		"header.tpl": {Data: []byte(`{{ header|comment:marker }}`)},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files), gotemplate.WithGlobalData(map[string]any{"marker": "//"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("banner", map[string]any{"target": "cpp"}, w)
	})
	if want := "// generated for cpp"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if written != got {
		t.Fatalf("writer got %q, want %q", written, got)
	}
}

func TestGoTemplateEngine_CommentFilter(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Render("header", map[string]any{"header": "Copyright <ACME>\n\nAll rights reserved.\n"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "// Copyright <ACME>\n//\n// All rights reserved."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Render(`{{ name|trim }}!`, map[string]any{"name": "  pseudo  "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "pseudo!" {
		t.Fatalf("got %q", got)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout_pseudo", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout_pseudo", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	got, err := engine.RenderString(`{{ name|shout_pseudo }}`, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("got %q", got)
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestGoTemplateEngine_RejectsUnsupportedData(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderString("x", struct{}{}); err == nil {
		t.Fatalf("expected error for struct data")
	}
}

func TestGoTemplateEngine_BaseDirAndExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "banner.j2"), []byte(`{{ marker }} from disk`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithExtension("j2"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for _, name := range []string{"banner", "banner.j2"} {
		got, err := engine.RenderTemplate(name, map[string]any{"marker": "#"})
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if want := "# from disk"; got != want {
			t.Fatalf("%s: got %q want %q", name, got, want)
		}
	}
}
