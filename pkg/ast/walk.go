package ast

import "strconv"

// Clone returns a deep copy of the tree rooted at n. Passes clone their input
// and rewrite the copy so earlier versions of the tree are never mutated.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Type: n.Type.Clone(), Attrs: make(Attrs, len(n.Attrs))}
	for name, value := range n.Attrs {
		out.Attrs[name] = cloneValue(value)
	}
	return out
}

func cloneValue(value Value) Value {
	switch v := value.(type) {
	case *Node:
		return Clone(v)
	case List:
		if v == nil {
			return List(nil)
		}
		out := make(List, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	case *Type:
		return v.Clone()
	default:
		return v
	}
}

// Visitor is invoked for every node in depth-first, source order. path is the
// attribute path from the root, e.g. "definitions[0].block[2]". Returning
// false skips the node's children.
type Visitor func(path string, n *Node) bool

// Walk traverses the tree rooted at n.
func Walk(n *Node, visit Visitor) {
	walk("", n, visit)
}

func walk(path string, n *Node, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(path, n) {
		return
	}
	for _, name := range n.Names() {
		switch v := n.Attrs[name].(type) {
		case *Node:
			walk(JoinPath(path, name), v, visit)
		case List:
			for i, item := range v {
				walk(JoinPath(path, name)+"["+strconv.Itoa(i)+"]", item, visit)
			}
		}
	}
}

// JoinPath appends an attribute segment to a path.
func JoinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
