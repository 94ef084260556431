package ast

// Builders for the node shapes front ends and passes synthesise most often.

// Local builds an identifier reference.
func Local(name string, t *Type) *Node {
	return New(KindLocal, Attrs{"name": String(name)}).Typed(t)
}

// Typename builds a reference to a named type.
func Typename(name string) *Node {
	return New(KindTypename, Attrs{"name": String(name)})
}

// IntLit builds an integer literal typed Int.
func IntLit(v int64) *Node {
	return New(KindInt, Attrs{"value": Int(v)}).Typed(T("Int"))
}

// FloatLit builds a float literal typed Float.
func FloatLit(v float64) *Node {
	return New(KindFloat, Attrs{"value": Float(v)}).Typed(T("Float"))
}

// StringLit builds a string literal typed String.
func StringLit(v string) *Node {
	return New(KindString, Attrs{"value": String(v)}).Typed(T("String"))
}

// BoolLit builds a boolean literal typed Boolean.
func BoolLit(v bool) *Node {
	return New(KindBoolean, Attrs{"value": Bool(v)}).Typed(T("Boolean"))
}

// Assign builds an assignment of value to target.
func Assign(target, value *Node) *Node {
	return New(KindAssignment, Attrs{"target": target, "value": value})
}

// Nodes collects nodes into a List.
func Nodes(items ...*Node) List {
	return List(append([]*Node{}, items...))
}
