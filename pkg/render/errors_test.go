package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/render"
)

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &render.Error{
		Kind:     render.ErrMissingAttribute,
		NodeKind: ast.KindCall,
		Path:     "definitions[0].block[1]",
		Detail:   `"function"`,
		Err:      cause,
	}

	want := `render: missing attribute: node "call" at definitions[0].block[1]: "function": boom`
	if got := err.Error(); got != want {
		t.Fatalf("unexpected message:\n got %s\nwant %s", got, want)
	}
	if !errors.Is(err, render.ErrMissingAttribute) {
		t.Fatalf("expected errors.Is to match the kind")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to match the cause")
	}
	if errors.Is(err, render.ErrMissingHook) {
		t.Fatalf("unexpected match on another kind")
	}
}

func TestErrorMessageWithoutOptionalParts(t *testing.T) {
	err := &render.Error{Kind: render.ErrUnsupportedConstruct}
	if got := err.Error(); got != "render: unsupported construct" {
		t.Fatalf("unexpected message %q", got)
	}
}
