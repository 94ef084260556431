// Package target assembles code generators from declarative YAML documents.
//
// A document names the target, its layout (indent width, tabs or spaces,
// statement terminator), the passes to run, the type table and one template
// per node kind:
//
//	name: cpp
//	indent: 4
//	terminator: ";"
//	passes: [declaration, pointer, exceptions, display_exception]
//	types:
//	  Int: int
//	  List: std::vector<{0}>
//	templates:
//	  local: "%<name>"
//	  assignment:
//	    switch:
//	      flag: first_mention
//	      cases:
//	        "true": "%<@value.pseudo_type> %<target> = %<value>"
//	        "false": "%<target> = %<value>"
//
// Hooks and arity-dependent type entries are code and are attached through
// Options when the Generator is built.
package target
