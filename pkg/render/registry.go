package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-pseudo/pkg/ast"
)

// Hook renders a node in place of generic directive substitution. Hooks
// receive the render context so they can render children, format types and
// mint temporary names.
type Hook func(c *Context, n *ast.Node, indent int) (string, error)

// Hooks is a target's custom hook table keyed by directive name.
type Hooks map[string]Hook

// Entry is the template configuration for one node kind: its spec plus the
// named toggles its literals reference through %<.name>.
type Entry struct {
	Spec    Spec
	Toggles map[string]*Toggle
}

// RegistryOption configures registry construction.
type RegistryOption func(*Registry)

// WithUnsupported declares kinds the target deliberately has no template for.
// Rendering one fails with ErrUnsupportedConstruct.
func WithUnsupported(kinds ...ast.Kind) RegistryOption {
	return func(r *Registry) {
		for _, k := range kinds {
			r.unsupported[k] = struct{}{}
		}
	}
}

// RequireExhaustive makes construction fail unless every kind of the closed
// set has an entry or is declared unsupported.
func RequireExhaustive() RegistryOption {
	return func(r *Registry) {
		r.exhaustive = true
	}
}

// Registry resolves node kinds to templates. It is immutable once built and
// safe for concurrent use.
type Registry struct {
	entries     map[ast.Kind]Entry
	hooks       Hooks
	unsupported map[ast.Kind]struct{}
	exhaustive  bool
}

// NewRegistry validates and builds a registry. Every problem detectable
// without a tree is reported here: unknown kinds, switches without a fallback
// for a non-exhaustive selector, toggles referenced but not defined, and hook
// directives naming hooks absent from the table.
func NewRegistry(entries map[ast.Kind]Entry, hooks Hooks, options ...RegistryOption) (*Registry, error) {
	r := &Registry{
		entries:     make(map[ast.Kind]Entry, len(entries)),
		hooks:       make(Hooks, len(hooks)),
		unsupported: make(map[ast.Kind]struct{}),
	}
	for name, hook := range hooks {
		if hook != nil {
			r.hooks[name] = hook
		}
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	for _, kind := range sortedKinds(entries) {
		entry := entries[kind]
		if !kind.Known() {
			return nil, fmt.Errorf("render: %w: unknown node kind %q", ErrInvalidTemplate, kind)
		}
		if _, ok := r.unsupported[kind]; ok {
			return nil, fmt.Errorf("render: %w: kind %q has a template but is declared unsupported", ErrInvalidTemplate, kind)
		}
		if entry.Spec == nil {
			return nil, fmt.Errorf("render: %w: kind %q has no template", ErrInvalidTemplate, kind)
		}
		if err := r.validateSpec(kind, entry, entry.Spec); err != nil {
			return nil, err
		}
		for _, name := range sortedToggleNames(entry.Toggles) {
			toggle := entry.Toggles[name]
			if toggle == nil || toggle.Present == nil || toggle.Absent == nil {
				return nil, fmt.Errorf("render: %w: toggle %q of kind %q is incomplete", ErrInvalidTemplate, name, kind)
			}
			if err := r.validateSpec(kind, entry, toggle); err != nil {
				return nil, err
			}
		}
		r.entries[kind] = entry
	}
	for kind := range r.unsupported {
		if !kind.Known() {
			return nil, fmt.Errorf("render: %w: unknown node kind %q", ErrInvalidTemplate, kind)
		}
	}

	if r.exhaustive {
		if missing := r.Missing(); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, k := range missing {
				names[i] = string(k)
			}
			return nil, fmt.Errorf("render: %w: no template for kinds %s", ErrUnsupportedConstruct, strings.Join(names, ", "))
		}
	}
	return r, nil
}

// MustNewRegistry panics when the registry is invalid.
func MustNewRegistry(entries map[ast.Kind]Entry, hooks Hooks, options ...RegistryOption) *Registry {
	r, err := NewRegistry(entries, hooks, options...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) validateSpec(kind ast.Kind, entry Entry, spec Spec) error {
	switch s := spec.(type) {
	case *Literal:
		return r.validateLiteral(kind, entry, s)
	case *Toggle:
		if err := r.validateLiteral(kind, entry, s.Present); err != nil {
			return err
		}
		return r.validateLiteral(kind, entry, s.Absent)
	case *Switch:
		if s.Selector == nil {
			return fmt.Errorf("render: %w: switch of kind %q has no selector", ErrInvalidTemplate, kind)
		}
		if ok, missing := s.exhaustive(); !ok {
			detail := "no " + Otherwise + " case"
			if len(missing) > 0 {
				detail += " and no cases for " + strings.Join(missing, ", ")
			}
			return fmt.Errorf("render: %w: switch on %s of kind %q: %s", ErrInvalidTemplate, s.Selector, kind, detail)
		}
		keys := make([]string, 0, len(s.Cases))
		for key := range s.Cases {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if s.Cases[key] == nil {
				return fmt.Errorf("render: %w: switch case %q of kind %q is empty", ErrInvalidTemplate, key, kind)
			}
			if err := r.validateSpec(kind, entry, s.Cases[key]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: %w: kind %q has an unsupported spec %T", ErrInvalidTemplate, kind, spec)
	}
}

func (r *Registry) validateLiteral(kind ast.Kind, entry Entry, lit *Literal) error {
	if lit == nil {
		return fmt.Errorf("render: %w: kind %q has a nil literal", ErrInvalidTemplate, kind)
	}
	for _, d := range lit.Directives() {
		switch d.Kind {
		case DirectiveHook:
			if _, ok := r.hooks[d.Path]; !ok {
				return fmt.Errorf("render: %w: %q used by kind %q", ErrMissingHook, d.Path, kind)
			}
		case DirectiveToggle:
			if _, ok := entry.Toggles[d.Path]; !ok {
				return fmt.Errorf("render: %w: kind %q references undefined toggle %q", ErrInvalidTemplate, kind, d.Path)
			}
		}
	}
	return nil
}

// Resolve selects the literal template for a node, evaluating switches and
// toggles on the node itself.
func (r *Registry) Resolve(n *ast.Node) (*Literal, error) {
	kind := ast.KindOf(n)
	if _, ok := r.unsupported[kind]; ok {
		return nil, &Error{Kind: ErrUnsupportedConstruct, NodeKind: kind, Detail: "declared unsupported by the target"}
	}
	entry, ok := r.entries[kind]
	if !ok {
		return nil, &Error{Kind: ErrUnsupportedConstruct, NodeKind: kind, Detail: "no template registered"}
	}

	spec := entry.Spec
	for {
		switch s := spec.(type) {
		case *Literal:
			return s, nil
		case *Toggle:
			return s.choose(n), nil
		case *Switch:
			next, ok := s.choose(n)
			if !ok {
				return nil, &Error{
					Kind:     ErrUnsupportedConstruct,
					NodeKind: kind,
					Detail:   fmt.Sprintf("no case for %s = %q", s.Selector, s.Selector.Select(n)),
				}
			}
			spec = next
		default:
			return nil, &Error{Kind: ErrInvalidTemplate, NodeKind: kind, Detail: fmt.Sprintf("unsupported spec %T", spec)}
		}
	}
}

// Toggle returns a named toggle of a kind.
func (r *Registry) Toggle(kind ast.Kind, name string) (*Toggle, bool) {
	entry, ok := r.entries[kind]
	if !ok {
		return nil, false
	}
	t, ok := entry.Toggles[name]
	return t, ok
}

// Hook returns a named hook.
func (r *Registry) Hook(name string) (Hook, bool) {
	h, ok := r.hooks[name]
	return h, ok
}

// Has reports whether a kind has a template.
func (r *Registry) Has(kind ast.Kind) bool {
	_, ok := r.entries[kind]
	return ok
}

// Unsupported returns the kinds declared unsupported, sorted.
func (r *Registry) Unsupported() []ast.Kind {
	out := make([]ast.Kind, 0, len(r.unsupported))
	for k := range r.unsupported {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Missing returns the kinds of the closed set that have neither a template
// nor an unsupported declaration.
func (r *Registry) Missing() []ast.Kind {
	var out []ast.Kind
	for _, k := range ast.Kinds() {
		if _, ok := r.entries[k]; ok {
			continue
		}
		if _, ok := r.unsupported[k]; ok {
			continue
		}
		out = append(out, k)
	}
	return out
}

func sortedKinds(entries map[ast.Kind]Entry) []ast.Kind {
	out := make([]ast.Kind, 0, len(entries))
	for k := range entries {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedToggleNames(toggles map[string]*Toggle) []string {
	out := make([]string, 0, len(toggles))
	for name := range toggles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
