package orchestrator

import (
	"context"
	"errors"
	"fmt"

	internalLoader "github.com/goliatone/go-pseudo/internal/loader"
	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/source"
	"github.com/goliatone/go-pseudo/pkg/target"
	"github.com/goliatone/go-pseudo/pkg/targets/cpp"
)

const defaultTargetName = cpp.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom tree loader.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a backend registry.
func WithRegistry(registry *target.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultTarget overrides the backend used when a request omits an explicit
// Target field.
func WithDefaultTarget(name string) Option {
	return func(o *Orchestrator) {
		o.defaultTarget = name
	}
}

// WithTransformer registers Transformers that rewrite the decoded tree before
// the backend runs. They run in registration order.
func WithTransformer(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		for _, t := range transformers {
			if t != nil {
				o.transformers = append(o.transformers, t)
			}
		}
	}
}

// Orchestrator coordinates the full pipeline from tree document to generated
// source. It applies defaults (file loader, C++ backend) while remaining open
// to dependency injection.
type Orchestrator struct {
	loader          source.Loader
	registry        *target.Registry
	defaultTarget   string
	transformers    []Transformer
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultTarget: defaultTargetName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs of one generation.
type Request struct {
	// Source identifies where the tree document lives. Optional when Document
	// or Module is supplied.
	Source source.Source

	// Document bypasses the loader when the caller already holds the payload.
	Document *source.Document

	// Module bypasses loading and decoding. The orchestrator never mutates it.
	Module *ast.Node

	// Target names the backend. Empty falls back to the configured default.
	Target string

	// Options carries per-request output settings (banner, header).
	Options target.Options
}

// Result carries the generated source and the backend that produced it.
type Result struct {
	Target    string
	Extension string
	Output    []byte
}

// Generate runs the pipeline and returns the generated source.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	res, err := o.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// Run is Generate with backend metadata attached to the output.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return Result{}, err
		}
	}

	backend, err := o.backendFor(req.Target)
	if err != nil {
		return Result{}, err
	}

	module, location, err := o.resolveModule(ctx, req)
	if err != nil {
		return Result{}, err
	}

	module, err = o.applyTransformers(ctx, module)
	if err != nil {
		return Result{}, err
	}

	opts := req.Options
	if opts.Source == "" {
		opts.Source = location
	}

	output, err := backend.Generate(ctx, module, opts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: generate %s: %w", backend.Name(), err)
	}

	return Result{
		Target:    backend.Name(),
		Extension: backend.Extension(),
		Output:    output,
	}, nil
}

// Targets lists the registered backend names.
func (o *Orchestrator) Targets() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolveModule(ctx context.Context, req Request) (*ast.Node, string, error) {
	if req.Module != nil {
		return req.Module, "", nil
	}

	var doc source.Document
	switch {
	case req.Document != nil:
		doc = *req.Document
	case req.Source != nil:
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return nil, "", fmt.Errorf("orchestrator: load document: %w", err)
		}
		doc = loaded
	default:
		return nil, "", errors.New("orchestrator: source, document or module is required")
	}

	module, err := doc.Module()
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: decode document: %w", err)
	}
	return module, doc.Location(), nil
}

func (o *Orchestrator) backendFor(name string) (target.Backend, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: target registry is nil")
	}

	want := name
	if want == "" {
		want = o.defaultTarget
	}

	if want != "" {
		backend, err := o.registry.Get(want)
		if err == nil {
			return backend, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: target %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no targets registered")
	}

	backend, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: target %q: %w", names[0], err)
	}
	return backend, nil
}

// applyTransformers runs on a private copy so caller-owned modules stay
// untouched.
func (o *Orchestrator) applyTransformers(ctx context.Context, module *ast.Node) (*ast.Node, error) {
	if len(o.transformers) == 0 {
		return module, nil
	}
	module = ast.Clone(module)
	for _, t := range o.transformers {
		if err := t.Transform(ctx, module); err != nil {
			return nil, fmt.Errorf("orchestrator: transform module: %w", err)
		}
	}
	return module, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(source.NewLoaderOptions())
	}
	if o.registry == nil {
		o.registry = target.NewRegistry()
		if err := cpp.Register(o.registry); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default target: %w", err)
		}
	}
	if o.defaultTarget == "" {
		o.defaultTarget = defaultTargetName
	}

	o.defaultsApplied = true
}
