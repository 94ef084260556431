package middleware

import "github.com/goliatone/go-pseudo/pkg/ast"

const (
	// DeclarationPassName names the first-mention pass.
	DeclarationPassName = "declaration"
	// FirstMention is the boolean attribute the pass sets on every assignment.
	FirstMention = "first_mention"
)

// Declaration returns the pass that marks each assignment with whether it is
// the first binding of its target in the enclosing lexical scope. Function
// bodies, blocks, loop bodies and handlers each open a scope; a name bound in
// a closed scope is unbound again once that scope ends.
func Declaration() Pass {
	return NewPass(DeclarationPassName, func(module *ast.Node) *ast.Node {
		if module == nil {
			return nil
		}
		d := &declarer{}
		d.scopes.push()
		defer d.scopes.pop()

		if constants, ok := module.Children("constants"); ok {
			for _, c := range constants {
				if name, ok := c.Str("constant"); ok {
					d.scopes.bind(name)
				}
				d.children(c)
			}
		}
		if definitions, ok := module.Children("definitions"); ok {
			for _, def := range definitions {
				d.visit(def)
			}
		}
		d.block(module, "main")
		return module
	})
}

type declarer struct {
	scopes scopes
}

func (d *declarer) block(n *ast.Node, attr string, names ...string) {
	d.scopes.push(names...)
	defer d.scopes.pop()
	items, _ := n.Children(attr)
	for _, item := range items {
		d.visit(item)
	}
}

func (d *declarer) visit(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindAssignment:
		if value, ok := n.Child("value"); ok {
			d.visit(value)
		}
		first := false
		target, _ := n.Child("target")
		if ast.KindOf(target) == ast.KindLocal {
			name, _ := target.Str("name")
			first = d.scopes.bind(name)
		} else {
			d.visit(target)
		}
		n.Set(FirstMention, ast.Bool(first))

	case ast.KindDeclaration:
		if name, ok := n.Str("name"); ok {
			d.scopes.bind(name)
		}
		d.children(n)

	case ast.KindFunctionDefinition, ast.KindMethodDefinition, ast.KindConstructor, ast.KindAnonymousFunction:
		d.block(n, "block", paramNames(n)...)

	case ast.KindClassDefinition:
		if ctor, ok := n.Child("constructor"); ok {
			d.visit(ctor)
		}
		if methods, ok := n.Children("methods"); ok {
			for _, m := range methods {
				d.visit(m)
			}
		}

	case ast.KindIfStatement, ast.KindElseIfStatement, ast.KindWhileStatement:
		if test, ok := n.Child("test"); ok {
			d.visit(test)
		}
		d.block(n, "block")
		if otherwise, ok := n.Child("otherwise"); ok {
			d.visit(otherwise)
		}

	case ast.KindElseStatement, ast.KindBlock:
		d.block(n, "block")

	case ast.KindForStatement:
		if sequences, ok := n.Child("sequences"); ok {
			d.visit(sequences)
		}
		iterators, _ := n.Child("iterators")
		d.block(n, "block", localNames(iterators)...)

	case ast.KindForRangeStatement:
		index, _ := n.Str("index")
		d.block(n, "block", index)

	case ast.KindTryStatement:
		d.block(n, "block")
		if handlers, ok := n.Children("handlers"); ok {
			for _, h := range handlers {
				d.visit(h)
			}
		}

	case ast.KindExceptionHandler:
		instance, _ := n.Str("instance")
		d.block(n, "block", instance)

	case ast.KindWithStatement:
		resource, _ := n.Str("context")
		d.block(n, "block", resource)

	default:
		d.children(n)
	}
}

// children visits nested nodes of expressions so anonymous functions inside
// them get their own scopes.
func (d *declarer) children(n *ast.Node) {
	for _, name := range n.Names() {
		switch v := n.Attrs[name].(type) {
		case *ast.Node:
			d.visit(v)
		case ast.List:
			for _, item := range v {
				d.visit(item)
			}
		}
	}
}

func paramNames(n *ast.Node) []string {
	params, _ := n.Children("params")
	out := make([]string, 0, len(params))
	for _, p := range params {
		if name, ok := p.Str("name"); ok {
			out = append(out, name)
		}
	}
	return out
}

func localNames(n *ast.Node) []string {
	var out []string
	ast.Walk(n, func(_ string, node *ast.Node) bool {
		if node.Kind == ast.KindLocal {
			if name, ok := node.Str("name"); ok {
				out = append(out, name)
			}
		}
		return true
	})
	return out
}
