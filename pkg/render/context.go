package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-pseudo/pkg/ast"
	"github.com/goliatone/go-pseudo/pkg/typemap"
)

// maxDepth bounds recursion; trees are strictly tree-shaped and a deeper
// descent means the input has a back-edge.
const maxDepth = 4096

type tempKey struct {
	node   *ast.Node
	prefix string
}

// Context is the state of a single render invocation. It is not safe for
// concurrent use; independent renders each get their own Context.
type Context struct {
	engine  *Engine
	types   typemap.Table
	counter int
	temps   map[tempKey]string
	path    []string
	current *ast.Node
	depth   int
}

// Render renders n at the given indent level.
func (c *Context) Render(n *ast.Node, indent int) (string, error) {
	if n == nil {
		return "", c.fail(ErrMissingAttribute, nil, "nil node", nil)
	}
	c.depth++
	prev := c.current
	c.current = n
	defer func() {
		c.depth--
		c.current = prev
	}()
	if c.depth > maxDepth {
		return "", c.fail(ErrUnsupportedConstruct, n, "tree exceeds maximum depth; cyclic input is not supported", nil)
	}

	lit, err := c.engine.registry.Resolve(n)
	if err != nil {
		return "", c.annotate(err)
	}
	return c.renderLiteral(n, lit, indent)
}

// RenderAttr renders the attribute at a dotted path of n.
func (c *Context) RenderAttr(n *ast.Node, path string, indent int) (string, error) {
	value, ok := n.Lookup(path)
	if !ok {
		return "", c.fail(ErrMissingAttribute, n, strconv.Quote(path), nil)
	}
	return c.renderValue(path, value, indent)
}

// RenderChild renders a node reachable from the current node, recording seg
// in the error path.
func (c *Context) RenderChild(seg string, n *ast.Node, indent int) (string, error) {
	c.push(seg)
	defer c.pop()
	return c.Render(n, indent)
}

// RenderType renders a semantic type through the type table.
func (c *Context) RenderType(t *ast.Type) (string, error) {
	out, err := c.types.Render(t)
	if err != nil {
		kind := ErrInvalidTemplate
		if errors.Is(err, typemap.ErrUnknownType) {
			kind = ErrUnknownType
		}
		return "", c.fail(kind, c.current, "", err)
	}
	return out, nil
}

// Offset returns the indentation prefix for a level.
func (c *Context) Offset(level int) string {
	return c.engine.offset(level)
}

// Terminator returns the target statement terminator.
func (c *Context) Terminator() string {
	return c.engine.terminator
}

// Fresh mints a name unique within this render invocation.
func (c *Context) Fresh(prefix string) string {
	c.counter++
	return prefix + strconv.Itoa(c.counter)
}

// TempFor returns the temporary name bound to (n, prefix), minting it on
// first use so every directive of one node sees the same name.
func (c *Context) TempFor(n *ast.Node, prefix string) string {
	key := tempKey{node: n, prefix: prefix}
	if name, ok := c.temps[key]; ok {
		return name
	}
	name := c.Fresh(prefix)
	c.temps[key] = name
	return name
}

func (c *Context) renderLiteral(n *ast.Node, lit *Literal, indent int) (string, error) {
	out := make([]string, 0, len(lit.lines))
	pendingBlank := false
	for _, line := range lit.lines {
		if line.blank {
			if len(out) > 0 {
				pendingBlank = true
			}
			continue
		}

		level := indent + line.depth
		var b strings.Builder
		for _, seg := range line.segments {
			if seg.directive == nil {
				b.WriteString(seg.text)
				continue
			}
			s, err := c.directive(n, seg.directive, level)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}

		text := b.String()
		if !lit.inline {
			text = strings.TrimRight(text, " \t")
		}
		if strings.TrimSpace(text) == "" && !line.literal {
			// Directive-only lines that render nothing are dropped.
			continue
		}
		if pendingBlank {
			out = append(out, "")
			pendingBlank = false
		}
		if len(out) > 0 {
			text = c.Offset(level) + text
		}
		out = append(out, text)
	}
	return strings.Join(out, "\n"), nil
}

func (c *Context) directive(n *ast.Node, d *Directive, level int) (string, error) {
	switch d.Kind {
	case DirectivePlain:
		return c.RenderAttr(n, d.Path, level)

	case DirectiveType:
		value, ok := n.Lookup(d.Path)
		if !ok {
			return "", c.fail(ErrMissingAttribute, n, strconv.Quote(d.Path), nil)
		}
		t, ok := value.(*ast.Type)
		if !ok {
			return "", c.fail(ErrMissingAttribute, n, fmt.Sprintf("%q is not a type", d.Path), nil)
		}
		return c.RenderType(t)

	case DirectiveToggle:
		toggle, ok := c.engine.registry.Toggle(n.Kind, d.Path)
		if !ok {
			return "", c.fail(ErrInvalidTemplate, n, fmt.Sprintf("toggle %q is not defined", d.Path), nil)
		}
		return c.renderLiteral(n, toggle.choose(n), level)

	case DirectiveHook:
		hook, ok := c.engine.registry.Hook(d.Path)
		if !ok {
			return "", c.fail(ErrMissingHook, n, strconv.Quote(d.Path), nil)
		}
		return hook(c, n, level)

	case DirectiveList:
		var items ast.List
		if value, ok := n.Lookup(d.Path); ok {
			switch v := value.(type) {
			case ast.List:
				items = v
			case *ast.Node:
				items = ast.List{v}
			default:
				return "", c.fail(ErrMissingAttribute, n, fmt.Sprintf("%q is not a list", d.Path), nil)
			}
		}
		return c.renderList(d, items, level)

	default:
		return "", c.fail(ErrInvalidTemplate, n, "unknown directive "+d.Raw, nil)
	}
}

func (c *Context) renderValue(seg string, value ast.Value, level int) (string, error) {
	switch v := value.(type) {
	case *ast.Node:
		return c.RenderChild(seg, v, level)
	case ast.List:
		parts := make([]string, len(v))
		for i, item := range v {
			s, err := c.RenderChild(seg+"["+strconv.Itoa(i)+"]", item, level)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ", "), nil
	case *ast.Type:
		return c.RenderType(v)
	default:
		if s, ok := ast.Format(v); ok {
			return s, nil
		}
		return "", c.fail(ErrInvalidTemplate, c.current, fmt.Sprintf("cannot format %T", value), nil)
	}
}

func (c *Context) renderList(d *Directive, items ast.List, level int) (string, error) {
	parts := make([]string, 0, len(items))
	for i, item := range items {
		if d.Mode == ListFirst && i > 0 {
			break
		}
		s, err := c.RenderChild(d.Path+"["+strconv.Itoa(i)+"]", item, level)
		if err != nil {
			return "", err
		}
		if d.Mode == ListStatements {
			s = c.Terminate(item, s)
		}
		parts = append(parts, s)
	}

	switch d.Mode {
	case ListJoin:
		return strings.Join(parts, d.Sep), nil
	case ListFirst:
		if len(parts) == 0 {
			return "", nil
		}
		return parts[0], nil
	case ListBlocks:
		return strings.Join(parts, "\n\n"+c.Offset(level)), nil
	default:
		return strings.Join(parts, "\n"+c.Offset(level)), nil
	}
}

// Terminate appends the statement terminator to the rendering s of n unless
// n is a block kind or s already ends with it.
func (c *Context) Terminate(n *ast.Node, s string) string {
	term := c.engine.terminator
	if term == "" || s == "" {
		return s
	}
	if _, ok := c.engine.blockKinds[n.Kind]; ok {
		return s
	}
	if strings.HasSuffix(s, term) {
		return s
	}
	return s + term
}

func (c *Context) push(seg string) {
	c.path = append(c.path, seg)
}

func (c *Context) pop() {
	if len(c.path) > 0 {
		c.path = c.path[:len(c.path)-1]
	}
}

// Path returns the attribute path of the node being rendered.
func (c *Context) Path() string {
	return strings.Join(c.path, ".")
}

// Fail builds an error of the given kind located at the current path. Hooks
// use it so their failures read like engine failures.
func (c *Context) Fail(kind error, n *ast.Node, detail string) error {
	return c.fail(kind, n, detail, nil)
}

func (c *Context) fail(kind error, n *ast.Node, detail string, cause error) error {
	return &Error{
		Kind:     kind,
		NodeKind: ast.KindOf(n),
		Path:     c.Path(),
		Detail:   detail,
		Err:      cause,
	}
}

func (c *Context) annotate(err error) error {
	var rerr *Error
	if errors.As(err, &rerr) && rerr.Path == "" {
		rerr.Path = c.Path()
	}
	return err
}
