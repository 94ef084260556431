package cpp

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/middleware"
	"github.com/goliatone/go-pseudo/pkg/render"
)

// Temporary name prefixes minted per loop node.
const (
	loopIndexPrefix = "_i"
	loopBoundPrefix = "_n"
	loopItemPrefix  = "_item"
)

// exceptionHeaders are the includes exception support needs, in emission
// order. iostream backs the std::cerr report around main.
var exceptionHeaders = []string{"iostream", "stdexcept", "exception"}

// Hooks returns the C++ hook table.
func Hooks() render.Hooks {
	return render.Hooks{
		"params":                 params,
		"anon_block":             anonBlock,
		"exception_dependencies": exceptionDependencies,
		"zip_iterators":          zipIterators,
		"first_sequence":         firstSequence,
		"safe_double":            safeDouble,
		"declared_type":          declaredType,
		"loop_index":             tempHook(loopIndexPrefix),
		"loop_bound":             tempHook(loopBoundPrefix),
		"loop_item":              tempHook(loopItemPrefix),
	}
}

// params renders "Type name" pairs.
func params(c *render.Context, n *ast.Node, _ int) (string, error) {
	items, _ := n.Children("params")
	parts := make([]string, 0, len(items))
	for i, p := range items {
		name, ok := p.Str("name")
		if !ok {
			return "", c.Fail(render.ErrMissingAttribute, n, fmt.Sprintf("params[%d] has no name", i))
		}
		if p.Type == nil {
			return "", c.Fail(render.ErrMissingAttribute, n, fmt.Sprintf("param %q has no type", name))
		}
		typ, err := c.RenderType(p.Type)
		if err != nil {
			return "", err
		}
		parts = append(parts, typ+" "+name)
	}
	return strings.Join(parts, ", "), nil
}

// anonBlock renders a lambda body: one statement stays on the line, more
// statements open an indented block.
func anonBlock(c *render.Context, n *ast.Node, indent int) (string, error) {
	block, _ := n.Children("block")
	switch len(block) {
	case 0:
		return "{}", nil
	case 1:
		s, err := c.RenderChild("block[0]", block[0], indent)
		if err != nil {
			return "", err
		}
		return "{ " + c.Terminate(block[0], s) + " }", nil
	}

	var b strings.Builder
	b.WriteString("{")
	for i, stmt := range block {
		s, err := c.RenderChild("block["+strconv.Itoa(i)+"]", stmt, indent+1)
		if err != nil {
			return "", err
		}
		b.WriteString("\n" + c.Offset(indent+1) + c.Terminate(stmt, s))
	}
	b.WriteString("\n" + c.Offset(indent) + "}")
	return b.String(), nil
}

// exceptionDependencies adds the exception support includes a module needs
// and does not already declare.
func exceptionDependencies(c *render.Context, n *ast.Node, indent int) (string, error) {
	if !n.Flag(middleware.ExceptionSupport) {
		return "", nil
	}
	declared := make(map[string]struct{})
	if deps, ok := n.Children("dependencies"); ok {
		for _, dep := range deps {
			if name, ok := dep.Str("name"); ok {
				declared[name] = struct{}{}
			}
		}
	}

	lines := make([]string, 0, len(exceptionHeaders))
	for _, header := range exceptionHeaders {
		if _, ok := declared[header]; ok {
			continue
		}
		dep := ast.New(ast.KindDependency, ast.Attrs{"name": ast.String(header)})
		s, err := c.RenderChild("dependencies", dep, indent)
		if err != nil {
			return "", err
		}
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n"+c.Offset(indent)), nil
}

// zipIterators binds each zipped iterator to its sequence at the shared loop
// index.
func zipIterators(c *render.Context, n *ast.Node, indent int) (string, error) {
	iterators, err := listAt(c, n, "iterators.iterators")
	if err != nil {
		return "", err
	}
	sequences, err := listAt(c, n, "sequences.sequences")
	if err != nil {
		return "", err
	}
	if len(sequences) < len(iterators) {
		return "", c.Fail(render.ErrMissingAttribute, n, fmt.Sprintf("%d iterators zip %d sequences", len(iterators), len(sequences)))
	}

	index := c.TempFor(n, loopIndexPrefix)
	lines := make([]string, 0, len(iterators))
	for j, it := range iterators {
		name, ok := it.Str("name")
		if !ok {
			return "", c.Fail(render.ErrMissingAttribute, n, fmt.Sprintf("iterators.iterators[%d] has no name", j))
		}
		access := ast.New(ast.KindIndex, ast.Attrs{
			"sequence": sequences[j],
			"index":    ast.Local(index, ast.T("Int")),
		})
		value, err := c.RenderChild("sequences.sequences["+strconv.Itoa(j)+"]", access, indent)
		if err != nil {
			return "", err
		}
		lines = append(lines, "auto& "+name+" = "+value+c.Terminator())
	}
	return strings.Join(lines, "\n"+c.Offset(indent)), nil
}

func firstSequence(c *render.Context, n *ast.Node, indent int) (string, error) {
	sequences, err := listAt(c, n, "sequences.sequences")
	if err != nil {
		return "", err
	}
	if len(sequences) == 0 {
		return "", c.Fail(render.ErrMissingAttribute, n, "sequences.sequences is empty")
	}
	return c.RenderChild("sequences.sequences[0]", sequences[0], indent)
}

// safeDouble renders the value attribute as a double-quoted C++ literal.
func safeDouble(c *render.Context, n *ast.Node, _ int) (string, error) {
	value, ok := n.Str("value")
	if !ok {
		return "", c.Fail(render.ErrMissingAttribute, n, `"value"`)
	}
	return quote(value), nil
}

// quote normalises s to NFC and escapes it for a C++ string literal. Control
// characters without a short escape are written in octal.
func quote(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\%03o`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// declaredType is the type of a first-mention declaration: the target's
// type, else the value's, else auto.
func declaredType(c *render.Context, n *ast.Node, _ int) (string, error) {
	for _, path := range []string{"target." + ast.TypeAttr, "value." + ast.TypeAttr} {
		if value, ok := n.Lookup(path); ok {
			if t, ok := value.(*ast.Type); ok {
				return c.RenderType(t)
			}
		}
	}
	return "auto", nil
}

func tempHook(prefix string) render.Hook {
	return func(c *render.Context, n *ast.Node, _ int) (string, error) {
		return c.TempFor(n, prefix), nil
	}
}

func listAt(c *render.Context, n *ast.Node, path string) (ast.List, error) {
	value, ok := n.Lookup(path)
	if !ok {
		return nil, c.Fail(render.ErrMissingAttribute, n, strconv.Quote(path))
	}
	list, ok := value.(ast.List)
	if !ok {
		return nil, c.Fail(render.ErrMissingAttribute, n, fmt.Sprintf("%q is not a list", path))
	}
	return list, nil
}
