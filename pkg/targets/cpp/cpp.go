// Package cpp is the C++ backend. Templates, types and layout live in the
// embedded cpp.yaml; this package adds what a document cannot express: the
// hook table, the arity-dependent Tuple type and the class names each module
// declares.
package cpp

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/target"
	"github.com/goliatone/go-pseudo/pkg/typemap"
)

// Name is the registry name of the backend.
const Name = "cpp"

//go:embed cpp.yaml preamble.tpl
var files embed.FS

// Option customises backend construction.
type Option func(*config)

type config struct {
	fsys  fs.FS
	path  string
	extra []target.Option
}

// WithDocument replaces the embedded document. Preamble templates named by
// the document are resolved against the same filesystem.
func WithDocument(fsys fs.FS, path string) Option {
	return func(cfg *config) {
		if fsys != nil {
			cfg.fsys = fsys
		}
		if strings.TrimSpace(path) != "" {
			cfg.path = path
		}
	}
}

// WithTargetOptions forwards options to target.New, after the C++ defaults.
func WithTargetOptions(options ...target.Option) Option {
	return func(cfg *config) {
		cfg.extra = append(cfg.extra, options...)
	}
}

// New builds the C++ generator.
func New(options ...Option) (*target.Generator, error) {
	cfg := &config{fsys: files, path: "cpp.yaml"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	doc, err := target.Load(cfg.fsys, cfg.path)
	if err != nil {
		return nil, fmt.Errorf("cpp: %w", err)
	}

	targetOptions := []target.Option{
		target.WithHooks(Hooks()),
		target.WithTypeFuncs(TypeFuncs()),
		target.WithModuleTypes(moduleTypes(doc.Types[pointerType])),
	}
	targetOptions = append(targetOptions, cfg.extra...)

	gen, err := target.New(doc, targetOptions...)
	if err != nil {
		return nil, fmt.Errorf("cpp: %w", err)
	}
	return gen, nil
}

// MustNew panics when the backend cannot be built.
func MustNew(options ...Option) *target.Generator {
	gen, err := New(options...)
	if err != nil {
		panic(err)
	}
	return gen
}

// Register adds the backend to reg.
func Register(reg *target.Registry, options ...Option) error {
	if reg == nil {
		return errors.New("cpp: registry is required")
	}
	gen, err := New(options...)
	if err != nil {
		return err
	}
	return reg.Register(gen)
}

// Files exposes the embedded document and preamble.
func Files() fs.FS {
	return files
}

// TypeFuncs returns the computed type entries.
func TypeFuncs() typemap.Table {
	return typemap.Table{"Tuple": typemap.Func(tupleType)}
}

// tupleType renders two parameters as std::pair and any other arity as
// std::tuple.
func tupleType(params []string) string {
	if len(params) == 2 {
		return "std::pair<" + params[0] + ", " + params[1] + ">"
	}
	return "std::tuple<" + strings.Join(params, ", ") + ">"
}

// pointerType is the managed-pointer base name the pointer pass acts on.
const pointerType = "Pointer"

// moduleTypes maps the classes a module defines to raw pointer types and its
// custom exceptions to plain class types. Inside pointerFormat (the document's
// Pointer entry) a class keeps its value spelling, so Pointer<Shape> owns a
// Shape rather than a Shape*.
func moduleTypes(pointerFormat string) func(*ast.Node) typemap.Table {
	return func(module *ast.Node) typemap.Table {
		out := typemap.Table{}
		classes := make(map[string]struct{})
		if definitions, ok := module.Children("definitions"); ok {
			for _, def := range definitions {
				if def.Kind != ast.KindClassDefinition {
					continue
				}
				if name, ok := def.Str("name"); ok {
					out[name] = typemap.Format(name + "*")
					classes[name+"*"] = struct{}{}
				}
			}
		}
		if custom, ok := module.Children("custom_exceptions"); ok {
			for _, exc := range custom {
				if name, ok := exc.Str("name"); ok {
					out[name] = typemap.Format(name)
				}
			}
		}
		if len(classes) > 0 && pointerFormat != "" {
			out[pointerType] = managedPointer{format: typemap.Format(pointerFormat), classes: classes}
		}
		return out
	}
}

// managedPointer expands the Pointer format with class parameters unstarred.
type managedPointer struct {
	format  typemap.Format
	classes map[string]struct{}
}

func (p managedPointer) Expand(params []string) (string, error) {
	values := make([]string, len(params))
	for i, param := range params {
		if _, ok := p.classes[param]; ok {
			param = strings.TrimSuffix(param, "*")
		}
		values[i] = param
	}
	return p.format.Expand(values)
}
