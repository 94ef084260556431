package target

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/middleware"
	"github.com/goliatone/go-pseudo/pkg/render"
	"github.com/goliatone/go-pseudo/pkg/render/template"
	"github.com/goliatone/go-pseudo/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pseudo/pkg/typemap"
)

// Options tune a single Generate call.
type Options struct {
	// Source names the input the module was read from; shown in the banner.
	Source string
	// Header is free text emitted as a comment block above the output.
	Header string
	// Banner adds a "generated by" comment line.
	Banner bool
}

// Backend turns a module tree into target source.
type Backend interface {
	Name() string
	Extension() string
	Generate(ctx context.Context, module *ast.Node, opts Options) ([]byte, error)
}

// Option customises Generator construction.
type Option func(*settings)

type settings struct {
	hooks       render.Hooks
	typeFuncs   typemap.Table
	moduleTypes func(*ast.Node) typemap.Table
	passes      middleware.Pipeline
	passesSet   bool
	renderer    template.TemplateRenderer
	registry    []render.RegistryOption
}

// WithHooks supplies the custom hook table.
func WithHooks(hooks render.Hooks) Option {
	return func(s *settings) {
		if s.hooks == nil {
			s.hooks = make(render.Hooks, len(hooks))
		}
		for name, hook := range hooks {
			s.hooks[name] = hook
		}
	}
}

// WithTypeFuncs supplies computed type-table entries.
func WithTypeFuncs(funcs typemap.Table) Option {
	return func(s *settings) {
		s.typeFuncs = s.typeFuncs.Extend(funcs)
	}
}

// WithModuleTypes derives extra type entries from each module rendered.
func WithModuleTypes(fn func(module *ast.Node) typemap.Table) Option {
	return func(s *settings) {
		s.moduleTypes = fn
	}
}

// WithPasses replaces the passes named by the document.
func WithPasses(passes ...middleware.Pass) Option {
	return func(s *settings) {
		s.passes = append(middleware.Pipeline(nil), passes...)
		s.passesSet = true
	}
}

// WithTemplateRenderer overrides the preamble renderer.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(s *settings) {
		s.renderer = renderer
	}
}

// WithRegistryOptions forwards options to registry construction.
func WithRegistryOptions(options ...render.RegistryOption) Option {
	return func(s *settings) {
		s.registry = append(s.registry, options...)
	}
}

// Generator is a Backend assembled from a Document plus code-level options.
type Generator struct {
	doc      *Document
	engine   *render.Engine
	passes   middleware.Pipeline
	preamble template.TemplateRenderer
}

var _ Backend = (*Generator)(nil)

// New builds a Generator. Every template problem surfaces here, before any
// tree is rendered.
func New(doc *Document, options ...Option) (*Generator, error) {
	if doc == nil {
		return nil, errors.New("target: document is required")
	}
	cfg := &settings{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	registry, types, err := doc.Compile(cfg.hooks, cfg.typeFuncs, cfg.registry...)
	if err != nil {
		return nil, err
	}

	engineOptions := doc.EngineOptions()
	if cfg.moduleTypes != nil {
		engineOptions = append(engineOptions, render.WithModuleTypes(cfg.moduleTypes))
	}
	engine, err := render.NewEngine(registry, types, engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", doc.Name, err)
	}

	passes := cfg.passes
	if !cfg.passesSet {
		passes, err = middleware.Resolve(doc.Passes...)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", doc.Name, err)
		}
	}

	g := &Generator{doc: doc, engine: engine, passes: passes, preamble: cfg.renderer}
	if doc.Preamble != "" && g.preamble == nil {
		var tplOptions []gotemplate.Option
		if doc.fsys != nil {
			tplOptions = append(tplOptions, gotemplate.WithFS(doc.fsys))
		}
		g.preamble, err = gotemplate.New(tplOptions...)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", doc.Name, err)
		}
	}
	return g, nil
}

// Name implements Backend.
func (g *Generator) Name() string {
	return g.doc.Name
}

// Extension implements Backend.
func (g *Generator) Extension() string {
	return g.doc.Extension
}

// Document returns the document the generator was built from.
func (g *Generator) Document() *Document {
	return g.doc
}

// Engine returns the render engine.
func (g *Generator) Engine() *render.Engine {
	return g.engine
}

// Passes returns the configured pipeline.
func (g *Generator) Passes() middleware.Pipeline {
	return g.passes
}

// Transform runs the pipeline over a copy of module.
func (g *Generator) Transform(ctx context.Context, module *ast.Node) (*ast.Node, error) {
	if ast.KindOf(module) != ast.KindModule {
		return nil, fmt.Errorf("target %s: root node must be %q, got %q", g.doc.Name, ast.KindModule, ast.KindOf(module))
	}
	return g.passes.Run(ctx, module)
}

// Generate transforms and renders module. The output always ends with a
// newline.
func (g *Generator) Generate(ctx context.Context, module *ast.Node, opts Options) ([]byte, error) {
	transformed, err := g.Transform(ctx, module)
	if err != nil {
		return nil, err
	}
	body, err := g.engine.Render(transformed, 0)
	if err != nil {
		return nil, err
	}

	preamble, err := g.renderPreamble(opts)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if preamble != "" {
		b.WriteString(preamble)
		b.WriteString("\n\n")
	}
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func (g *Generator) renderPreamble(opts Options) (string, error) {
	if g.doc.Preamble == "" || g.preamble == nil {
		return "", nil
	}
	if !opts.Banner && strings.TrimSpace(opts.Header) == "" {
		return "", nil
	}
	marker := g.doc.LineComment
	if marker == "" {
		marker = "//"
	}
	out, err := g.preamble.Render(g.doc.Preamble, map[string]any{
		"target":       g.doc.Name,
		"source":       opts.Source,
		"header":       strings.TrimSpace(opts.Header),
		"banner":       opts.Banner,
		"line_comment": marker,
	})
	if err != nil {
		return "", fmt.Errorf("target %s: preamble: %w", g.doc.Name, err)
	}
	return strings.TrimSpace(out), nil
}
