// Package typemap renders semantic types into target-language type syntax.
// A Table maps neutral base names to either a positional Format string or a
// Func that receives the already-rendered parameters, which lets one base
// name change shape with its arity.
package typemap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-pseudo/pkg/ast"
)

// ErrUnknownType is returned when a base type name has no table entry.
var ErrUnknownType = errors.New("unknown type")

// Entry expands rendered type parameters into target syntax.
type Entry interface {
	Expand(params []string) (string, error)
}

// Format is a literal entry with positional {0}, {1}, ... slots.
type Format string

// Expand substitutes rendered parameters into the slots.
func (f Format) Expand(params []string) (string, error) {
	src := string(f)
	var b strings.Builder
	for i := 0; i < len(src); i++ {
		if src[i] != '{' {
			b.WriteByte(src[i])
			continue
		}
		end := strings.IndexByte(src[i:], '}')
		if end < 0 {
			b.WriteString(src[i:])
			break
		}
		idx, err := strconv.Atoi(src[i+1 : i+end])
		if err != nil {
			b.WriteByte(src[i])
			continue
		}
		if idx < 0 || idx >= len(params) {
			return "", fmt.Errorf("typemap: format %q needs parameter {%d}, got %d parameters", src, idx, len(params))
		}
		b.WriteString(params[idx])
		i += end
	}
	return b.String(), nil
}

// Func is a computed entry for arity-dependent shapes.
type Func func(params []string) string

// Expand calls the function.
func (fn Func) Expand(params []string) (string, error) {
	return fn(params), nil
}

// Table maps base type names to entries.
type Table map[string]Entry

// Render expands t depth-first: every parameter is rendered left to right
// before the base entry is applied.
func (tbl Table) Render(t *ast.Type) (string, error) {
	if t == nil {
		return "", errors.New("typemap: type is nil")
	}
	entry, ok := tbl[t.Name]
	if !ok || entry == nil {
		return "", fmt.Errorf("%w %q", ErrUnknownType, t.Name)
	}

	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		rendered, err := tbl.Render(p)
		if err != nil {
			return "", err
		}
		params[i] = rendered
	}
	return entry.Expand(params)
}

// Extend returns a new table holding the entries of tbl overlaid with extra.
// The receiver is left untouched.
func (tbl Table) Extend(extra Table) Table {
	out := make(Table, len(tbl)+len(extra))
	for name, entry := range tbl {
		out[name] = entry
	}
	for name, entry := range extra {
		out[name] = entry
	}
	return out
}

// FromStrings builds a table of Format entries.
func FromStrings(entries map[string]string) Table {
	out := make(Table, len(entries))
	for name, format := range entries {
		out[strings.TrimSpace(name)] = Format(format)
	}
	return out
}
