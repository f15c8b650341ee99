package complexity

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/frankyxhl/fx-metrics/pkg/models"
	"github.com/frankyxhl/fx-metrics/pkg/parser"
)

// Analyze computes one FunctionRecord per function definition in the file,
// including functions nested inside other functions or classes. Each record is
// independent: decision points inside a nested definition never count toward
// the enclosing function.
func Analyze(result *parser.ParseResult) []models.FunctionRecord {
	records := make([]models.FunctionRecord, 0)
	collect(result.Tree.RootNode(), result.Source, nil, &records)
	return records
}

// collect walks the tree recording functions. classPath is the chain of
// enclosing class names; enclosing functions do not extend it.
func collect(node *sitter.Node, source []byte, classPath []string, records *[]models.FunctionRecord) {
	for i := range int(node.ChildCount()) {
		child := node.Child(i)

		switch parser.Classify(child.Type()) {
		case parser.KindFunction:
			name := parser.NodeName(child, source)
			body := parser.NodeBody(child)
			*records = append(*records, models.FunctionRecord{
				QualifiedName: qualify(classPath, name),
				Complexity:    1 + CountDecisionPoints(body),
				StartLine:     child.StartPoint().Row + 1,
			})
			if body != nil {
				collect(body, source, classPath, records)
			}
		case parser.KindClass:
			if body := parser.NodeBody(child); body != nil {
				collect(body, source, append(pathCopy(classPath), parser.NodeName(child, source)), records)
			}
		case parser.KindLambda:
			// A lambda body cannot contain definition statements.
		default:
			collect(child, source, classPath, records)
		}
	}
}

// CountDecisionPoints counts the decision points in a function body subtree.
// Traversal stops at nested function, class, and lambda definitions; those are
// counted by their own records.
func CountDecisionPoints(node *sitter.Node) int {
	if node == nil {
		return 0
	}

	count := 0
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		kind := parser.Classify(child.Type())

		switch kind {
		case parser.KindConditional, parser.KindLoop, parser.KindResource,
			parser.KindTry, parser.KindHandler, parser.KindBoolOp:
			count += 1 + CountDecisionPoints(child)
		case parser.KindMatch:
			// N arms contribute N-1: one arm is the default path.
			if arms := matchArms(child); arms > 1 {
				count += arms - 1
			}
			count += CountDecisionPoints(child)
		case parser.KindFunction, parser.KindClass, parser.KindLambda:
			// Scope boundary.
		case parser.KindCaseArm, parser.KindOther:
			count += CountDecisionPoints(child)
		}
	}
	return count
}

// matchArms counts the case clauses directly under a match statement's body.
func matchArms(match *sitter.Node) int {
	body := parser.NodeBody(match)
	if body == nil {
		return 0
	}

	arms := 0
	for i := range int(body.ChildCount()) {
		if parser.Classify(body.Child(i).Type()) == parser.KindCaseArm {
			arms++
		}
	}
	return arms
}

func qualify(classPath []string, name string) string {
	if len(classPath) == 0 {
		return name
	}
	return strings.Join(classPath, ".") + "." + name
}

func pathCopy(path []string) []string {
	return append(make([]string, 0, len(path)+1), path...)
}
