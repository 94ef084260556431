package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/typemap"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIndent sets the output indentation: width spaces per level, or one tab
// per level when useSpaces is false.
func WithIndent(width int, useSpaces bool) EngineOption {
	return func(e *Engine) {
		if !useSpaces {
			e.indentUnit = "\t"
			return
		}
		if width < 0 {
			width = 0
		}
		e.indentUnit = strings.Repeat(" ", width)
	}
}

// WithTerminator sets the statement terminator appended by :semi lists.
func WithTerminator(terminator string) EngineOption {
	return func(e *Engine) {
		e.terminator = terminator
	}
}

// WithBlockKinds lists statement kinds that close their own block and never
// receive a terminator in :semi lists.
func WithBlockKinds(kinds ...ast.Kind) EngineOption {
	return func(e *Engine) {
		for _, k := range kinds {
			e.blockKinds[k] = struct{}{}
		}
	}
}

// WithModuleTypes adds type entries derived from the module being rendered,
// such as the classes it declares.
func WithModuleTypes(fn func(module *ast.Node) typemap.Table) EngineOption {
	return func(e *Engine) {
		e.moduleTypes = fn
	}
}

// Engine renders trees through a template registry and a type table. An
// Engine holds no per-render state; each Render call gets a fresh Context, so
// one Engine can serve concurrent callers.
type Engine struct {
	registry    *Registry
	types       typemap.Table
	indentUnit  string
	terminator  string
	blockKinds  map[ast.Kind]struct{}
	moduleTypes func(module *ast.Node) typemap.Table
}

// NewEngine constructs an engine. Defaults: four-space indentation and no
// statement terminator.
func NewEngine(registry *Registry, types typemap.Table, options ...EngineOption) (*Engine, error) {
	if registry == nil {
		return nil, errors.New("render: registry is required")
	}
	e := &Engine{
		registry:   registry,
		types:      types,
		indentUnit: "    ",
		blockKinds: make(map[ast.Kind]struct{}),
	}
	if e.types == nil {
		e.types = typemap.Table{}
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// Registry returns the engine's template registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Render renders the tree rooted at root with its first line at indent.
// Identical inputs yield identical output: the temporary-name counter lives
// in the per-call Context.
func (e *Engine) Render(root *ast.Node, indent int) (string, error) {
	return e.NewContext(root).Render(root, indent)
}

// NewContext prepares the per-invocation state for rendering root.
func (e *Engine) NewContext(root *ast.Node) *Context {
	types := e.types
	if e.moduleTypes != nil && ast.KindOf(root) == ast.KindModule {
		if extra := e.moduleTypes(root); len(extra) > 0 {
			types = types.Extend(extra)
		}
	}
	return &Context{
		engine: e,
		types:  types,
		temps:  make(map[tempKey]string),
	}
}

func (e *Engine) offset(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(e.indentUnit, level)
}
