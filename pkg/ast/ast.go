package ast

import (
	"sort"
	"strconv"
	"strings"
)

// Value is the sealed set of attribute values a Node can hold.
type Value interface {
	isValue()
}

// String is a primitive string attribute (names, operators, raw literals).
type String string

// Int is a primitive integer attribute.
type Int int64

// Float is a primitive floating point attribute.
type Float float64

// Bool is a primitive boolean attribute.
type Bool bool

// List is a sequence-valued attribute.
type List []*Node

func (String) isValue() {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (Bool) isValue()   {}
func (List) isValue()   {}
func (*Node) isValue()  {}
func (*Type) isValue()  {}

// Attrs maps attribute names to values.
type Attrs map[string]Value

// Node is a single entry of the neutral tree.
type Node struct {
	Kind  Kind
	Attrs Attrs
	// Type is the semantic type attached by the front end, addressable from
	// templates as the pseudo_type attribute.
	Type *Type
}

// TypeAttr is the reserved attribute name that addresses Node.Type.
const TypeAttr = "pseudo_type"

// New constructs a node. Nil values in attrs are dropped so callers can build
// optional attributes inline.
func New(kind Kind, attrs Attrs) *Node {
	n := &Node{Kind: kind, Attrs: make(Attrs, len(attrs))}
	for name, value := range attrs {
		if isNil(value) {
			continue
		}
		n.Attrs[name] = value
	}
	return n
}

// Typed attaches a semantic type and returns the node for chaining.
func (n *Node) Typed(t *Type) *Node {
	n.Type = t
	return n
}

// KindOf returns the node kind, or the empty kind for a nil node.
func KindOf(n *Node) Kind {
	if n == nil {
		return ""
	}
	return n.Kind
}

// Attr returns the named attribute. The pseudo_type name resolves to the
// node's semantic type.
func (n *Node) Attr(name string) (Value, bool) {
	if n == nil {
		return nil, false
	}
	if name == TypeAttr {
		if n.Type == nil {
			return nil, false
		}
		return n.Type, true
	}
	value, ok := n.Attrs[name]
	if !ok || isNil(value) {
		return nil, false
	}
	return value, true
}

// Has reports whether the attribute is present. Empty lists are present.
func (n *Node) Has(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Child returns a node-valued attribute.
func (n *Node) Child(name string) (*Node, bool) {
	value, ok := n.Attr(name)
	if !ok {
		return nil, false
	}
	child, ok := value.(*Node)
	return child, ok
}

// Children returns a list-valued attribute. The boolean is false only when
// the attribute is absent or not a list.
func (n *Node) Children(name string) (List, bool) {
	value, ok := n.Attr(name)
	if !ok {
		return nil, false
	}
	list, ok := value.(List)
	return list, ok
}

// Str returns a string-valued attribute. Node-valued attributes of kind local
// or typename resolve to their name, mirroring how front ends use either shape
// for identifiers.
func (n *Node) Str(name string) (string, bool) {
	value, ok := n.Attr(name)
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case String:
		return string(v), true
	case *Node:
		if v.Kind == KindLocal || v.Kind == KindTypename {
			return v.Str("name")
		}
	}
	return "", false
}

// Flag reports whether a boolean attribute is present and true.
func (n *Node) Flag(name string) bool {
	value, ok := n.Attr(name)
	if !ok {
		return false
	}
	b, ok := value.(Bool)
	return ok && bool(b)
}

// Set replaces an attribute. Only the current owner of a tree (a pass working
// on its private copy) may call it.
func (n *Node) Set(name string, value Value) {
	if name == TypeAttr {
		if t, ok := value.(*Type); ok {
			n.Type = t
		}
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(Attrs)
	}
	if isNil(value) {
		delete(n.Attrs, name)
		return
	}
	n.Attrs[name] = value
}

// Names returns the attribute names in sorted order.
func (n *Node) Names() []string {
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a dotted attribute path such as "iterators.index" or
// "value.pseudo_type". Every segment but the last must address a node.
func (n *Node) Lookup(path string) (Value, bool) {
	current := n
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		value, ok := current.Attr(segment)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(*Node)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Format renders a primitive value as plain text. Nodes, lists and types are
// not primitives and report false.
func Format(value Value) (string, bool) {
	switch v := value.(type) {
	case String:
		return string(v), true
	case Int:
		return strconv.FormatInt(int64(v), 10), true
	case Float:
		s := strconv.FormatFloat(float64(v), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s, true
	case Bool:
		return strconv.FormatBool(bool(v)), true
	default:
		return "", false
	}
}

func isNil(value Value) bool {
	switch v := value.(type) {
	case nil:
		return true
	case *Node:
		return v == nil
	case *Type:
		return v == nil
	}
	return false
}
