// Package middleware holds the tree-to-tree passes a target runs before
// rendering: first-mention annotation, ownership-qualified member access and
// exception materialisation.
package middleware

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-pseudo/pkg/ast"
)

// Pass rewrites a module tree. Apply owns the tree it receives and returns
// the rewritten tree. Unrecognised node shapes pass through untouched; a pass
// never fails, validation is left to the render engine.
type Pass interface {
	Name() string
	Apply(module *ast.Node) *ast.Node
}

type funcPass struct {
	name string
	fn   func(*ast.Node) *ast.Node
}

func (p funcPass) Name() string { return p.name }

func (p funcPass) Apply(module *ast.Node) *ast.Node {
	if p.fn == nil {
		return module
	}
	return p.fn(module)
}

// NewPass adapts a function into a named Pass.
func NewPass(name string, fn func(module *ast.Node) *ast.Node) Pass {
	return funcPass{name: name, fn: fn}
}

// Pipeline applies passes in order.
type Pipeline []Pass

// Run clones module and threads the copy through every pass. The caller's
// tree is never modified.
func (p Pipeline) Run(ctx context.Context, module *ast.Node) (*ast.Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	current := ast.Clone(module)
	for _, pass := range p {
		if pass == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("middleware: %s: %w", pass.Name(), err)
		}
		current = pass.Apply(current)
	}
	return current, nil
}

// Names lists the pass names in pipeline order.
func (p Pipeline) Names() []string {
	out := make([]string, 0, len(p))
	for _, pass := range p {
		if pass != nil {
			out = append(out, pass.Name())
		}
	}
	return out
}

var builtins = map[string]func() Pass{
	DeclarationPassName:      Declaration,
	PointerPassName:          Pointer,
	ExceptionsPassName:       Exceptions,
	DisplayExceptionPassName: DisplayException,
}

// Lookup returns a built-in pass by name.
func Lookup(name string) (Pass, bool) {
	factory, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Builtins lists the built-in pass names, sorted.
func Builtins() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve builds a pipeline from built-in pass names.
func Resolve(names ...string) (Pipeline, error) {
	out := make(Pipeline, 0, len(names))
	for _, name := range names {
		pass, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("middleware: unknown pass %q", name)
		}
		out = append(out, pass)
	}
	return out, nil
}
