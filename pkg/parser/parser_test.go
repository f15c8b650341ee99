package parser

import (
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.parser == nil {
		t.Error("parser.parser is nil")
	}
	p.Close()
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.py")

	code := `def hello():
    return "world"
`
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	p := New()
	defer p.Close()

	result, err := p.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if result.Path != path {
		t.Errorf("Path = %q, want %q", result.Path, path)
	}
	if result.Tree == nil {
		t.Fatal("Tree is nil")
	}
	if result.Tree.RootNode().Type() != "module" {
		t.Errorf("root type = %q, want %q", result.Tree.RootNode().Type(), "module")
	}
}

func TestParseFile_Nonexistent(t *testing.T) {
	p := New()
	defer p.Close()

	if _, err := p.ParseFile("/nonexistent/path/file.py"); err == nil {
		t.Error("ParseFile should fail for nonexistent file")
	}
}

func TestParseFile_NotPython(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	p := New()
	defer p.Close()

	if _, err := p.ParseFile(path); err == nil {
		t.Error("ParseFile should fail for non-Python files")
	}
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.py", true},
		{"gui.pyw", true},
		{"types.pyi", true},
		{"MAIN.PY", true},
		{"main.go", false},
		{"readme.md", false},
		{"py", false},
	}

	for _, tt := range tests {
		if got := IsSourceFile(tt.path); got != tt.want {
			t.Errorf("IsSourceFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWalk(t *testing.T) {
	p := New()
	defer p.Close()

	code := []byte("x = 1\n")
	result, err := p.Parse(code, "test.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var visited int
	Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		visited++
		return true
	})
	if visited == 0 {
		t.Error("Walk visited no nodes")
	}

	// Returning false stops descent.
	var rootOnly int
	Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		rootOnly++
		return false
	})
	if rootOnly != 1 {
		t.Errorf("Walk with early stop visited %d nodes, want 1", rootOnly)
	}
}

func TestWalkTyped(t *testing.T) {
	p := New()
	defer p.Close()

	result, err := p.Parse([]byte("if x:\n    pass\n"), "test.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var sawIf bool
	WalkTyped(result.Tree.RootNode(), result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if nodeType != node.Type() {
			t.Errorf("cached type %q != node.Type() %q", nodeType, node.Type())
		}
		if nodeType == "if_statement" {
			sawIf = true
		}
		return true
	})
	if !sawIf {
		t.Error("WalkTyped never visited the if_statement")
	}
}

func TestGetNodeText(t *testing.T) {
	p := New()
	defer p.Close()

	code := []byte("value = 42\n")
	result, err := p.Parse(code, "test.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := GetNodeText(result.Tree.RootNode(), result.Source); got != string(code) {
		t.Errorf("GetNodeText(root) = %q, want %q", got, string(code))
	}
	if got := GetNodeText(nil, result.Source); got != "" {
		t.Errorf("GetNodeText(nil) = %q, want empty", got)
	}
}

func TestNodeNameAndBody(t *testing.T) {
	p := New()
	defer p.Close()

	result, err := p.Parse([]byte("def greet():\n    pass\n"), "test.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var fn *sitter.Node
	Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		if node.Type() == "function_definition" {
			fn = node
			return false
		}
		return true
	})
	if fn == nil {
		t.Fatal("no function_definition found")
	}

	if got := NodeName(fn, result.Source); got != "greet" {
		t.Errorf("NodeName = %q, want %q", got, "greet")
	}
	if NodeBody(fn) == nil {
		t.Error("NodeBody returned nil")
	}
}
