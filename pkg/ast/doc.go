// Package ast defines the language-neutral tree ("pseudo AST") that backends
// render into target source text. A Node carries a Kind drawn from a closed
// set, a map of named attributes, and an optional semantic Type attached by
// the upstream type checker. Nodes imply no behaviour by themselves: backends
// dispatch on Kind through their template registry, so adding a kind means
// adding one registry entry per target and nothing else.
//
// Attribute values are one of *Node, List, String, Int, Float, Bool or *Type.
// An absent attribute and a present-but-empty List are distinct states; the
// render engine relies on that distinction when it selects toggle templates.
package ast
