package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pseudo/pkg/ast"
)

// Transformer rewrites a decoded module before the backend runs. The module is
// the orchestrator's private copy.
type Transformer interface {
	Transform(ctx context.Context, module *ast.Node) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, module *ast.Node) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, module *ast.Node) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, module)
}

// identifierAttrs hold plain-string identifiers.
var identifierAttrs = []string{"name", "function", "constant", "instance", "message"}

// RenameTransformer renames identifiers according to a declarative preset,
// typically to steer clear of names the target reserves:
//
//	rename:
//	  delete: delete_
//	  new: new_
type RenameTransformer struct {
	renames map[string]string
}

type renameDocument struct {
	Rename map[string]string `yaml:"rename"`
}

// NewRenameTransformer constructs a transformer from a from→to map.
func NewRenameTransformer(renames map[string]string) (*RenameTransformer, error) {
	if len(renames) == 0 {
		return nil, errors.New("rename transformer: no renames given")
	}
	out := make(map[string]string, len(renames))
	for from, to := range renames {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return nil, fmt.Errorf("rename transformer: empty name in %q -> %q", from, to)
		}
		out[from] = to
	}
	return &RenameTransformer{renames: out}, nil
}

// NewRenamePreset parses a YAML preset document.
func NewRenamePreset(data []byte) (*RenameTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("rename transformer: document is empty")
	}
	var document renameDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("rename transformer: parse document: %w", err)
	}
	return NewRenameTransformer(document.Rename)
}

// NewRenamePresetFromFS loads a YAML preset from the provided filesystem path.
func NewRenamePresetFromFS(fsys fs.FS, path string) (*RenameTransformer, error) {
	if fsys == nil {
		return nil, errors.New("rename transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rename transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("rename transformer: read %s: %w", path, err)
	}
	return NewRenamePreset(data)
}

// Transform applies the renames to every identifier in module. String
// literals are left alone.
func (t *RenameTransformer) Transform(ctx context.Context, module *ast.Node) error {
	if module == nil {
		return errors.New("rename transformer: module is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ast.Walk(module, func(_ string, n *ast.Node) bool {
		if isLiteral(n.Kind) {
			return false
		}
		for _, attr := range identifierAttrs {
			value, ok := n.Attrs[attr].(ast.String)
			if !ok {
				continue
			}
			if to, ok := t.renames[string(value)]; ok {
				n.Set(attr, ast.String(to))
			}
		}
		return true
	})
	return ctx.Err()
}

func isLiteral(kind ast.Kind) bool {
	switch kind {
	case ast.KindString, ast.KindInt, ast.KindFloat, ast.KindBoolean, ast.KindRegex:
		return true
	}
	return false
}
