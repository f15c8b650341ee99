package nesting

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/frankyxhl/fx-metrics/pkg/models"
	"github.com/frankyxhl/fx-metrics/pkg/parser"
)

// Ceiling is the maximum allowed control-flow nesting depth. Unlike the
// complexity ceiling it is fixed and cannot be overridden.
const Ceiling = 4

// Result holds the nesting metrics for one file.
type Result struct {
	MaxDepth   int
	Violations []models.NestingViolation
}

// Analyze walks a whole file and tracks control-flow nesting depth. Depth is
// local to each function and class body; lambdas add depth but do not reset it.
func Analyze(result *parser.ParseResult) Result {
	w := &walker{}
	w.visit(result.Tree.RootNode())
	return Result{MaxDepth: w.maxDepth, Violations: w.violations}
}

// walker carries the depth state machine. Definition boundaries save the
// current depth on an explicit stack so recursion unwinding can never leave
// stale state behind.
type walker struct {
	depth      int
	maxDepth   int
	saved      []int
	violations []models.NestingViolation
}

func (w *walker) visit(node *sitter.Node) {
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		// Anonymous token nodes reuse their keyword as the node type (the
		// "lambda" keyword inside a lambda node is itself typed "lambda"),
		// so only named nodes are classified.
		if !child.IsNamed() {
			continue
		}
		kind := parser.Classify(child.Type())

		switch kind {
		case parser.KindFunction, parser.KindClass:
			w.push()
			w.visit(child)
			w.pop()
		case parser.KindConditional, parser.KindLoop, parser.KindResource,
			parser.KindTry, parser.KindMatch, parser.KindLambda:
			w.enter(child, kind)
			w.visit(child)
			w.depth--
		default:
			// Handlers, match arms, and else branches share their
			// construct's single increment.
			w.visit(child)
		}
	}
}

// enter increments depth for a decision construct and records a violation when
// the new depth exceeds the ceiling. Recording does not stop traversal.
func (w *walker) enter(node *sitter.Node, kind parser.Kind) {
	w.depth++
	if w.depth > w.maxDepth {
		w.maxDepth = w.depth
	}
	if w.depth > Ceiling {
		w.violations = append(w.violations, models.NestingViolation{
			Line:    node.StartPoint().Row + 1,
			Depth:   w.depth,
			Kind:    kind.String(),
			Ceiling: Ceiling,
		})
	}
}

// push saves the current depth and resets it for a definition body.
func (w *walker) push() {
	w.saved = append(w.saved, w.depth)
	w.depth = 0
}

// pop restores the depth saved by the matching push.
func (w *walker) pop() {
	w.depth = w.saved[len(w.saved)-1]
	w.saved = w.saved[:len(w.saved)-1]
}
