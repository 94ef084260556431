package middleware

import "github.com/goliatone/go-pseudo/pkg/ast"

const (
	// ExceptionsPassName names the exception-materialisation pass.
	ExceptionsPassName = "exceptions"
	// DisplayExceptionPassName names the pass that guards the entry point.
	DisplayExceptionPassName = "display_exception"

	// ExceptionSupport is set on the module when exception support
	// dependencies are required.
	ExceptionSupport = "exception_support"
	// DisplayExceptions marks the try statement that guards the entry point.
	DisplayExceptions = "display_exceptions"

	DefaultExceptionType     = "std::exception"
	DefaultExceptionInstance = "e"
)

// Exceptions returns the pass that normalises every catch clause to an
// explicit exception type and bound instance name, and records on the module
// whether it defines custom exceptions. Try statements and throws alone do
// not set the flag.
func Exceptions() Pass {
	return NewPass(ExceptionsPassName, func(module *ast.Node) *ast.Node {
		if module == nil {
			return nil
		}
		custom, _ := module.Children("custom_exceptions")
		needed := len(custom) > 0
		ast.Walk(module, func(_ string, n *ast.Node) bool {
			if n.Kind == ast.KindExceptionHandler {
				if !n.Has("exception") {
					n.Set("exception", ast.Typename(DefaultExceptionType))
				}
				if !n.Has("instance") {
					n.Set("instance", ast.Local(DefaultExceptionInstance, nil))
				}
			}
			return true
		})
		if module.Kind == ast.KindModule {
			module.Set(ExceptionSupport, ast.Bool(needed))
		}
		return module
	})
}

// DisplayException returns the pass that wraps the entry point of a module
// defining custom exceptions in a handler printing the uncaught exception and exiting
// with status 1. It must run after Exceptions.
func DisplayException() Pass {
	return NewPass(DisplayExceptionPassName, func(module *ast.Node) *ast.Node {
		if ast.KindOf(module) != ast.KindModule || !module.Flag(ExceptionSupport) {
			return module
		}
		main, _ := module.Children("main")
		if len(main) == 0 || guarded(main) {
			return module
		}

		handler := ast.New(ast.KindExceptionHandler, ast.Attrs{
			"exception": ast.Typename(DefaultExceptionType),
			"instance":  ast.Local(DefaultExceptionInstance, nil),
			"block": ast.Nodes(
				ast.New(ast.KindDisplayException, ast.Attrs{
					"instance": ast.Local(DefaultExceptionInstance, nil),
				}),
				ast.New(ast.KindExplicitReturn, ast.Attrs{"value": ast.IntLit(1)}),
			),
		})
		module.Set("main", ast.Nodes(ast.New(ast.KindTryStatement, ast.Attrs{
			"block":           main,
			"handlers":        ast.Nodes(handler),
			DisplayExceptions: ast.Bool(true),
		})))
		return module
	})
}

func guarded(main ast.List) bool {
	return len(main) == 1 && main[0].Kind == ast.KindTryStatement && main[0].Flag(DisplayExceptions)
}
