package ast

// Kind tags a node. The set is closed: Kinds lists every member and decoders
// reject anything else.
type Kind string

// Structural kinds.
const (
	KindModule             Kind = "module"
	KindDependency         Kind = "dependency"
	KindConstant           Kind = "constant"
	KindCustomException    Kind = "custom_exception"
	KindFunctionDefinition Kind = "function_definition"
	KindMethodDefinition   Kind = "method_definition"
	KindClassDefinition    Kind = "class_definition"
	KindClassAttr          Kind = "class_attr"
	KindConstructor        Kind = "constructor"
	KindAnonymousFunction  Kind = "anonymous_function"
	KindBlock              Kind = "block"
)

// Names and literals.
const (
	KindLocal      Kind = "local"
	KindTypename   Kind = "typename"
	KindInt        Kind = "int"
	KindFloat      Kind = "float"
	KindString     Kind = "string"
	KindBoolean    Kind = "boolean"
	KindNull       Kind = "null"
	KindList       Kind = "list"
	KindDictionary Kind = "dictionary"
	KindSet        Kind = "set"
	KindTuple      Kind = "tuple"
	KindRegex      Kind = "regex"
	KindPair       Kind = "pair"
)

// Expressions.
const (
	KindAttr              Kind = "attr"
	KindPointerAttr       Kind = "pointer_attr"
	KindBinaryOp          Kind = "binary_op"
	KindUnaryOp           Kind = "unary_op"
	KindComparison        Kind = "comparison"
	KindCall              Kind = "call"
	KindStaticCall        Kind = "static_call"
	KindMethodCall        Kind = "method_call"
	KindPointerMethodCall Kind = "pointer_method_call"
	KindThis              Kind = "this"
	KindInstanceVariable  Kind = "instance_variable"
	KindNewInstance       Kind = "new_instance"
	KindIndex             Kind = "index"
	KindGroup             Kind = "group"
)

// Statements.
const (
	KindAssignment        Kind = "assignment"
	KindIfStatement       Kind = "if_statement"
	KindElseIfStatement   Kind = "elseif_statement"
	KindElseStatement     Kind = "else_statement"
	KindWhileStatement    Kind = "while_statement"
	KindForStatement      Kind = "for_statement"
	KindForRangeStatement Kind = "for_range_statement"
	KindTryStatement      Kind = "try_statement"
	KindExceptionHandler  Kind = "exception_handler"
	KindThrowStatement    Kind = "throw_statement"
	KindImplicitReturn    Kind = "implicit_return"
	KindExplicitReturn    Kind = "explicit_return"
	KindWithStatement     Kind = "with_statement"
	KindDeclaration       Kind = "declaration"
	KindAnonDeclaration   Kind = "anonymous_declaration"
	KindInputStatement    Kind = "input_statement"
	KindPrintStatement    Kind = "print_statement"
	KindDisplayException  Kind = "display_exception"
)

// Loop iterators and sequences. The iterator kind of a for_statement decides
// which loop shape a backend emits.
const (
	KindForIterator          Kind = "for_iterator"
	KindForIteratorWithIndex Kind = "for_iterator_with_index"
	KindForIteratorZip       Kind = "for_iterator_zip"
	KindForIteratorWithItems Kind = "for_iterator_with_items"
	KindForSequence          Kind = "for_sequence"
	KindForSequenceWithIndex Kind = "for_sequence_with_index"
	KindForSequenceZip       Kind = "for_sequence_zip"
	KindForSequenceWithItems Kind = "for_sequence_with_items"
)

var kinds = []Kind{
	KindModule, KindDependency, KindConstant, KindCustomException,
	KindFunctionDefinition, KindMethodDefinition, KindClassDefinition,
	KindClassAttr, KindConstructor, KindAnonymousFunction, KindBlock,

	KindLocal, KindTypename, KindInt, KindFloat, KindString, KindBoolean,
	KindNull, KindList, KindDictionary, KindSet, KindTuple, KindRegex, KindPair,

	KindAttr, KindPointerAttr, KindBinaryOp, KindUnaryOp, KindComparison,
	KindCall, KindStaticCall, KindMethodCall, KindPointerMethodCall, KindThis,
	KindInstanceVariable, KindNewInstance, KindIndex, KindGroup,

	KindAssignment, KindIfStatement, KindElseIfStatement, KindElseStatement,
	KindWhileStatement, KindForStatement, KindForRangeStatement,
	KindTryStatement, KindExceptionHandler, KindThrowStatement,
	KindImplicitReturn, KindExplicitReturn, KindWithStatement,
	KindDeclaration, KindAnonDeclaration, KindInputStatement,
	KindPrintStatement, KindDisplayException,

	KindForIterator, KindForIteratorWithIndex, KindForIteratorZip,
	KindForIteratorWithItems, KindForSequence, KindForSequenceWithIndex,
	KindForSequenceZip, KindForSequenceWithItems,
}

var knownKinds = func() map[Kind]struct{} {
	out := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		out[k] = struct{}{}
	}
	return out
}()

// Kinds returns every member of the closed kind set.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// Known reports whether k belongs to the closed set.
func (k Kind) Known() bool {
	_, ok := knownKinds[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}
