package parser

// Kind classifies a syntax node for metric purposes. Both analyzers dispatch
// over this closed set rather than raw grammar node type strings, so adding a
// construct means extending Classify and every switch over Kind.
type Kind int

const (
	// KindOther is any node with no metric significance; traversal recurses
	// through it transparently.
	KindOther Kind = iota

	// KindConditional covers if statements, elif clauses, and conditional
	// (ternary) expressions. Else clauses are not conditionals.
	KindConditional

	// KindLoop covers for and while statements.
	KindLoop

	// KindResource is a with statement.
	KindResource

	// KindTry is a try statement. Its handlers are classified separately.
	KindTry

	// KindHandler is an except clause attached to a try statement.
	KindHandler

	// KindMatch is a match statement.
	KindMatch

	// KindCaseArm is a single case clause of a match statement.
	KindCaseArm

	// KindBoolOp is a boolean operator node (and/or). Chains appear as
	// nested binary nodes, so each node is one short-circuit point.
	KindBoolOp

	// KindLambda is a lambda expression. It is a scope boundary for
	// complexity but accumulates nesting depth.
	KindLambda

	// KindFunction is a function or method definition.
	KindFunction

	// KindClass is a class definition.
	KindClass
)

// Classify maps a tree-sitter Python node type to its Kind.
func Classify(nodeType string) Kind {
	switch nodeType {
	case "if_statement", "elif_clause", "conditional_expression":
		return KindConditional
	case "for_statement", "while_statement":
		return KindLoop
	case "with_statement":
		return KindResource
	case "try_statement":
		return KindTry
	case "except_clause":
		return KindHandler
	case "match_statement":
		return KindMatch
	case "case_clause":
		return KindCaseArm
	case "boolean_operator":
		return KindBoolOp
	case "lambda":
		return KindLambda
	case "function_definition":
		return KindFunction
	case "class_definition":
		return KindClass
	default:
		return KindOther
	}
}

// String returns the label used in violation records.
func (k Kind) String() string {
	switch k {
	case KindConditional:
		return "conditional"
	case KindLoop:
		return "loop"
	case KindResource:
		return "with"
	case KindTry:
		return "try"
	case KindHandler:
		return "except"
	case KindMatch:
		return "match"
	case KindCaseArm:
		return "case"
	case KindBoolOp:
		return "boolean"
	case KindLambda:
		return "lambda"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	default:
		return "other"
	}
}
