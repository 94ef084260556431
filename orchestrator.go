// Package pseudo turns pseudo trees into target-language source. It re-exports
// the orchestrator and loader constructors so most callers need a single
// import.
package pseudo

import (
	"context"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/orchestrator"
	"github.com/goliatone/go-pseudo/pkg/source"
	"github.com/goliatone/go-pseudo/pkg/target"
)

// Options aliases target.Options for per-request output settings.
type Options = target.Options

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads the tree at src and renders it with the named target. An
// empty target selects the default backend.
func Generate(ctx context.Context, src source.Source, targetName string, opts Options, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:  src,
		Target:  targetName,
		Options: opts,
	})
}

// GenerateFromDocument renders a pre-loaded document, bypassing the loader.
func GenerateFromDocument(ctx context.Context, doc source.Document, targetName string, opts Options, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: &doc,
		Target:   targetName,
		Options:  opts,
	})
}

// GenerateFromModule renders an in-memory tree. module is not modified.
func GenerateFromModule(ctx context.Context, module *ast.Node, targetName string, opts Options, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Module:  module,
		Target:  targetName,
		Options: opts,
	})
}
