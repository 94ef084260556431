package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/typemap"
)

// Failure kinds. Every render failure is fatal and wraps one of these, so
// callers can branch with errors.Is.
var (
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrMissingAttribute     = errors.New("missing attribute")
	ErrMissingHook          = errors.New("missing hook")
	ErrInvalidTemplate      = errors.New("invalid template")
	ErrUnknownType          = typemap.ErrUnknownType
)

// Error reports a render failure at a specific node.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind     error
	NodeKind ast.Kind
	// Path is the attribute path from the rendered root to the failing node.
	Path   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("render: ")
	b.WriteString(e.Kind.Error())
	if e.NodeKind != "" {
		fmt.Fprintf(&b, ": node %q", e.NodeKind)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil && !errors.Is(e.Kind, e.Err) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}
