package middleware

import "github.com/goliatone/go-pseudo/pkg/ast"

const (
	// PointerPassName names the ownership-qualifier pass.
	PointerPassName = "pointer"
	// ManagedTypeName is the semantic type of shared, heap-managed values.
	ManagedTypeName = "Pointer"
)

// Pointer returns the pass that rewrites member access on heap-managed
// receivers into the pointer_attr and pointer_method_call kinds. A receiver
// is heap-managed when it is `this`, when its semantic type is Pointer<...>,
// or when its type names a class defined in the module.
func Pointer() Pass {
	return NewPass(PointerPassName, func(module *ast.Node) *ast.Node {
		classes := classNames(module)
		ast.Walk(module, func(_ string, n *ast.Node) bool {
			switch n.Kind {
			case ast.KindMethodCall:
				if receiver, ok := n.Child("receiver"); ok && managed(receiver, classes) {
					n.Kind = ast.KindPointerMethodCall
				}
			case ast.KindAttr:
				if object, ok := n.Child("object"); ok && managed(object, classes) {
					n.Kind = ast.KindPointerAttr
				}
			}
			return true
		})
		return module
	})
}

func managed(n *ast.Node, classes map[string]struct{}) bool {
	if n.Kind == ast.KindThis {
		return true
	}
	if n.Type == nil {
		return false
	}
	if n.Type.Name == ManagedTypeName {
		return true
	}
	_, ok := classes[n.Type.Name]
	return ok
}

func classNames(module *ast.Node) map[string]struct{} {
	out := make(map[string]struct{})
	definitions, _ := module.Children("definitions")
	for _, def := range definitions {
		if def.Kind != ast.KindClassDefinition {
			continue
		}
		if name, ok := def.Str("name"); ok {
			out[name] = struct{}{}
		}
	}
	return out
}
