package render

import (
	"sort"

	"github.com/goliatone/go-pseudo/pkg/ast"
)

// Otherwise is the fallback key every non-exhaustive Switch must define.
const Otherwise = "_otherwise"

// Spec is a template specification: *Literal, *Toggle or *Switch.
type Spec interface {
	isSpec()
}

func (*Literal) isSpec() {}
func (*Toggle) isSpec()  {}
func (*Switch) isSpec()  {}

// Toggle selects Present when the attribute Attr is present on the node and
// Absent otherwise. Presence is the test: an empty list is present. A Bool
// attribute holding false counts as absent.
type Toggle struct {
	Attr    string
	Present *Literal
	Absent  *Literal
}

// NewToggle parses both branches of a toggle.
func NewToggle(attr, present, absent string) (*Toggle, error) {
	p, err := ParseLiteral(present)
	if err != nil {
		return nil, err
	}
	a, err := ParseLiteral(absent)
	if err != nil {
		return nil, err
	}
	return &Toggle{Attr: attr, Present: p, Absent: a}, nil
}

func (t *Toggle) choose(n *ast.Node) *Literal {
	value, ok := n.Attr(t.Attr)
	if !ok {
		return t.Absent
	}
	if b, isBool := value.(ast.Bool); isBool && !bool(b) {
		return t.Absent
	}
	return t.Present
}

// Selector computes the Switch key for a node.
type Selector interface {
	Select(n *ast.Node) string
	// Domain returns every key Select can produce when that set is finite.
	Domain() ([]string, bool)
	String() string
}

// FlagSelector keys on a boolean attribute: "true" when present and true,
// "false" otherwise.
type FlagSelector string

// Select implements Selector.
func (s FlagSelector) Select(n *ast.Node) string {
	if n.Flag(string(s)) {
		return "true"
	}
	return "false"
}

// Domain implements Selector.
func (s FlagSelector) Domain() ([]string, bool) {
	return []string{"false", "true"}, true
}

func (s FlagSelector) String() string {
	return "flag " + string(s)
}

// KindSelector keys on the kind of the child node at a dotted path.
type KindSelector string

// Select implements Selector.
func (s KindSelector) Select(n *ast.Node) string {
	value, ok := n.Lookup(string(s))
	if !ok {
		return ""
	}
	child, ok := value.(*ast.Node)
	if !ok {
		return ""
	}
	return string(child.Kind)
}

// Domain implements Selector. The kind set is closed but a switch over it is
// only treated as exhaustive when it lists an Otherwise case.
func (s KindSelector) Domain() ([]string, bool) {
	return nil, false
}

func (s KindSelector) String() string {
	return "kind " + string(s)
}

// ValueSelector keys on the formatted primitive value of an attribute.
type ValueSelector string

// Select implements Selector.
func (s ValueSelector) Select(n *ast.Node) string {
	value, ok := n.Lookup(string(s))
	if !ok {
		return ""
	}
	out, _ := ast.Format(value)
	return out
}

// Domain implements Selector.
func (s ValueSelector) Domain() ([]string, bool) {
	return nil, false
}

func (s ValueSelector) String() string {
	return "value " + string(s)
}

// Switch selects among Cases by the key its Selector computes.
type Switch struct {
	Selector Selector
	Cases    map[string]Spec
}

func (s *Switch) choose(n *ast.Node) (Spec, bool) {
	if spec, ok := s.Cases[s.Selector.Select(n)]; ok {
		return spec, true
	}
	spec, ok := s.Cases[Otherwise]
	return spec, ok
}

// exhaustive reports whether the switch resolves every key its selector can
// produce. Missing lists the uncovered domain keys.
func (s *Switch) exhaustive() (bool, []string) {
	if _, ok := s.Cases[Otherwise]; ok {
		return true, nil
	}
	domain, finite := s.Selector.Domain()
	if !finite {
		return false, nil
	}
	var missing []string
	for _, key := range domain {
		if _, ok := s.Cases[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return len(missing) == 0, missing
}
