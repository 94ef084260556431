package target

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/render"
	"github.com/goliatone/go-pseudo/pkg/typemap"
)

// Document is the declarative half of a target: everything that can be
// written down without code. Hooks and computed type entries are supplied in
// Go when the Generator is built.
type Document struct {
	Name      string `yaml:"name"`
	Extension string `yaml:"extension"`
	// LineComment prefixes banner and header lines in the preamble.
	LineComment string `yaml:"line_comment"`

	Indent     int    `yaml:"indent"`
	UseSpaces  *bool  `yaml:"use_spaces"`
	Terminator string `yaml:"terminator"`
	// BlockStatements are statement kinds that close their own block and
	// never take a terminator.
	BlockStatements []string `yaml:"block_statements"`

	Passes      []string               `yaml:"passes"`
	Types       map[string]string      `yaml:"types"`
	Templates   map[string]TemplateDoc `yaml:"templates"`
	Unsupported []string               `yaml:"unsupported"`
	Exhaustive  bool                   `yaml:"exhaustive"`

	// Preamble is a pongo2 template name inside the document's FS, or inline
	// template content.
	Preamble string `yaml:"preamble"`

	source string
	fsys   fs.FS
}

// TemplateDoc is one template entry. In YAML it is either a plain string (a
// literal) or a mapping with literal or switch, plus optional toggles.
type TemplateDoc struct {
	Literal string
	Switch  *SwitchDoc
	// Toggles maps a toggle name, which is also the attribute it tests, to
	// its [present, absent] templates.
	Toggles map[string][]string
}

// SwitchDoc selects a case by exactly one of: a boolean flag, the kind of a
// child node, or a primitive attribute value.
type SwitchDoc struct {
	Flag  string                 `yaml:"flag"`
	Kind  string                 `yaml:"kind"`
	Value string                 `yaml:"value"`
	Cases map[string]TemplateDoc `yaml:"cases"`
}

// UnmarshalYAML accepts the scalar shorthand for literals.
func (t *TemplateDoc) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = TemplateDoc{Literal: value.Value}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Literal string              `yaml:"literal"`
			Switch  *SwitchDoc          `yaml:"switch"`
			Toggles map[string][]string `yaml:"toggles"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if raw.Literal != "" && raw.Switch != nil {
			return fmt.Errorf("line %d: template sets both literal and switch", value.Line)
		}
		*t = TemplateDoc{Literal: raw.Literal, Switch: raw.Switch, Toggles: raw.Toggles}
		return nil
	default:
		return fmt.Errorf("line %d: template must be a string or a mapping", value.Line)
	}
}

// Parse decodes a target document.
func Parse(data []byte, source string) (*Document, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("target: document %s is empty", source)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("target: parse %s: %w", source, err)
	}
	doc.Name = strings.TrimSpace(doc.Name)
	if doc.Name == "" {
		return nil, fmt.Errorf("target: document %s has no name", source)
	}
	doc.source = source
	return &doc, nil
}

// Load reads and decodes a target document from fsys. Preamble templates are
// resolved against the same FS.
func Load(fsys fs.FS, path string) (*Document, error) {
	if fsys == nil {
		return nil, errors.New("target: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("target: read %s: %w", path, err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	doc.fsys = fsys
	return doc, nil
}

// Source returns the path the document was loaded from.
func (d *Document) Source() string {
	return d.source
}

// Compile builds the template registry and type table described by the
// document. hooks and funcs supply the parts only code can express; funcs
// override literal type entries of the same name.
func (d *Document) Compile(hooks render.Hooks, funcs typemap.Table, options ...render.RegistryOption) (*render.Registry, typemap.Table, error) {
	entries := make(map[ast.Kind]render.Entry, len(d.Templates))
	for _, name := range sortedKeys(d.Templates) {
		entry, err := compileEntry(d.Templates[name])
		if err != nil {
			return nil, nil, fmt.Errorf("target %s: template %q: %w", d.Name, name, err)
		}
		entries[ast.Kind(name)] = entry
	}

	unsupported := make([]ast.Kind, len(d.Unsupported))
	for i, kind := range d.Unsupported {
		unsupported[i] = ast.Kind(kind)
	}
	options = append([]render.RegistryOption{render.WithUnsupported(unsupported...)}, options...)
	if d.Exhaustive {
		options = append(options, render.RequireExhaustive())
	}

	registry, err := render.NewRegistry(entries, hooks, options...)
	if err != nil {
		return nil, nil, fmt.Errorf("target %s: %w", d.Name, err)
	}
	return registry, typemap.FromStrings(d.Types).Extend(funcs), nil
}

// EngineOptions returns the layout options the document declares.
func (d *Document) EngineOptions() []render.EngineOption {
	width := d.Indent
	if width == 0 {
		width = 4
	}
	useSpaces := true
	if d.UseSpaces != nil {
		useSpaces = *d.UseSpaces
	}
	blocks := make([]ast.Kind, len(d.BlockStatements))
	for i, kind := range d.BlockStatements {
		blocks[i] = ast.Kind(kind)
	}
	return []render.EngineOption{
		render.WithIndent(width, useSpaces),
		render.WithTerminator(d.Terminator),
		render.WithBlockKinds(blocks...),
	}
}

func compileEntry(doc TemplateDoc) (render.Entry, error) {
	spec, err := compileSpec(doc)
	if err != nil {
		return render.Entry{}, err
	}
	toggles := make(map[string][]string)
	if err := collectToggles(doc, toggles); err != nil {
		return render.Entry{}, err
	}
	entry := render.Entry{Spec: spec}
	if len(toggles) > 0 {
		entry.Toggles = make(map[string]*render.Toggle, len(toggles))
		for _, name := range sortedKeys(toggles) {
			branches := toggles[name]
			toggle, err := render.NewToggle(name, branches[0], branches[1])
			if err != nil {
				return render.Entry{}, fmt.Errorf("toggle %q: %w", name, err)
			}
			entry.Toggles[name] = toggle
		}
	}
	return entry, nil
}

// collectToggles gathers the toggles of doc and of every switch case below
// it. Toggles belong to the kind, so a name may be declared more than once
// only with the same branches.
func collectToggles(doc TemplateDoc, into map[string][]string) error {
	for _, name := range sortedKeys(doc.Toggles) {
		branches := doc.Toggles[name]
		if len(branches) != 2 {
			return fmt.Errorf("toggle %q needs [present, absent], got %d templates", name, len(branches))
		}
		if prev, ok := into[name]; ok && (prev[0] != branches[0] || prev[1] != branches[1]) {
			return fmt.Errorf("toggle %q is declared twice with different templates", name)
		}
		into[name] = branches
	}
	if doc.Switch == nil {
		return nil
	}
	for _, key := range sortedKeys(doc.Switch.Cases) {
		if err := collectToggles(doc.Switch.Cases[key], into); err != nil {
			return fmt.Errorf("case %q: %w", key, err)
		}
	}
	return nil
}

func compileSpec(doc TemplateDoc) (render.Spec, error) {
	if doc.Switch == nil {
		return render.ParseLiteral(doc.Literal)
	}

	selector, err := doc.Switch.selector()
	if err != nil {
		return nil, err
	}
	sw := &render.Switch{Selector: selector, Cases: make(map[string]render.Spec, len(doc.Switch.Cases))}
	for _, key := range sortedKeys(doc.Switch.Cases) {
		spec, err := compileSpec(doc.Switch.Cases[key])
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", key, err)
		}
		sw.Cases[key] = spec
	}
	return sw, nil
}

func (s *SwitchDoc) selector() (render.Selector, error) {
	var set []render.Selector
	if s.Flag != "" {
		set = append(set, render.FlagSelector(s.Flag))
	}
	if s.Kind != "" {
		set = append(set, render.KindSelector(s.Kind))
	}
	if s.Value != "" {
		set = append(set, render.ValueSelector(s.Value))
	}
	if len(set) != 1 {
		return nil, fmt.Errorf("%w: switch needs exactly one of flag, kind or value", render.ErrInvalidTemplate)
	}
	return set[0], nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
