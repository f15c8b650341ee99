package complexity

import (
	"testing"

	"github.com/frankyxhl/fx-metrics/pkg/models"
	"github.com/frankyxhl/fx-metrics/pkg/parser"
)

func parse(t *testing.T, code string) *parser.ParseResult {
	t.Helper()
	p := parser.New()
	t.Cleanup(p.Close)

	result, err := p.Parse([]byte(code), "test.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return result
}

func scores(records []models.FunctionRecord) map[string]int {
	m := make(map[string]int, len(records))
	for _, r := range records {
		m[r.QualifiedName] = r.Complexity
	}
	return m
}

func TestSimpleFunction(t *testing.T) {
	result := parse(t, `def simple():
    return 42
`)
	records := Analyze(result)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Complexity != 1 {
		t.Errorf("Complexity = %d, want 1", records[0].Complexity)
	}
	if records[0].QualifiedName != "simple" {
		t.Errorf("QualifiedName = %q, want %q", records[0].QualifiedName, "simple")
	}
}

func TestEmptyBody(t *testing.T) {
	result := parse(t, `def empty():
    pass
`)
	records := Analyze(result)
	if len(records) != 1 || records[0].Complexity != 1 {
		t.Fatalf("records = %+v, want one record with complexity 1", records)
	}
}

func TestIndependentBranchesAndLoop(t *testing.T) {
	// Three independent ifs plus one for loop: 1 + 3 + 1 = 5.
	result := parse(t, `def check(a, b, c, items):
    if a:
        print(a)
    if b:
        print(b)
    if c:
        print(c)
    for item in items:
        print(item)
`)
	got := scores(Analyze(result))
	if got["check"] != 5 {
		t.Errorf("check = %d, want 5", got["check"])
	}
}

func TestElseIsFree(t *testing.T) {
	result := parse(t, `def pick(x):
    if x > 0:
        return x
    else:
        return -x
`)
	got := scores(Analyze(result))
	if got["pick"] != 2 {
		t.Errorf("pick = %d, want 2", got["pick"])
	}
}

func TestElifCountsAsConditional(t *testing.T) {
	// if + two elifs = 3 decision points; else is free.
	result := parse(t, `def grade(x):
    if x > 90:
        return "a"
    elif x > 80:
        return "b"
    elif x > 70:
        return "c"
    else:
        return "f"
`)
	got := scores(Analyze(result))
	if got["grade"] != 4 {
		t.Errorf("grade = %d, want 4", got["grade"])
	}
}

func TestWhileAndWith(t *testing.T) {
	result := parse(t, `def drain(q, path):
    while q:
        q.pop()
    with open(path) as f:
        f.read()
`)
	got := scores(Analyze(result))
	if got["drain"] != 3 {
		t.Errorf("drain = %d, want 3", got["drain"])
	}
}

func TestTryWithHandlers(t *testing.T) {
	// A try with two handlers contributes 1 + 2 = 3.
	result := parse(t, `def load(path):
    try:
        return open(path).read()
    except OSError:
        return None
    except ValueError:
        return None
`)
	got := scores(Analyze(result))
	if got["load"] != 4 {
		t.Errorf("load = %d, want 4", got["load"])
	}
}

func TestTryFinallyIsFree(t *testing.T) {
	result := parse(t, `def guarded(lock):
    try:
        lock.acquire()
    except RuntimeError:
        pass
    finally:
        lock.release()
`)
	got := scores(Analyze(result))
	if got["guarded"] != 3 {
		t.Errorf("guarded = %d, want 3", got["guarded"])
	}
}

func TestMatchArms(t *testing.T) {
	// Three arms contribute 3 - 1 = 2: one arm is the default path.
	result := parse(t, `def dispatch(cmd):
    match cmd:
        case "start":
            return 1
        case "stop":
            return 2
        case _:
            return 0
`)
	got := scores(Analyze(result))
	if got["dispatch"] != 3 {
		t.Errorf("dispatch = %d, want 3", got["dispatch"])
	}
}

func TestBooleanChain(t *testing.T) {
	// The if adds 1; a chain of 3 operands adds 2.
	result := parse(t, `def allowed(a, b, c):
    if a and b and c:
        return True
    return False
`)
	got := scores(Analyze(result))
	if got["allowed"] != 4 {
		t.Errorf("allowed = %d, want 4", got["allowed"])
	}
}

func TestBooleanChainInAssignment(t *testing.T) {
	result := parse(t, `def any_of(a, b, c, d):
    found = a or b or c or d
    return found
`)
	got := scores(Analyze(result))
	if got["any_of"] != 4 {
		t.Errorf("any_of = %d, want 4", got["any_of"])
	}
}

func TestConditionalExpression(t *testing.T) {
	result := parse(t, `def absval(x):
    return x if x >= 0 else -x
`)
	got := scores(Analyze(result))
	if got["absval"] != 2 {
		t.Errorf("absval = %d, want 2", got["absval"])
	}
}

func TestNestedFunctionIsIndependent(t *testing.T) {
	result := parse(t, `def outer(xs):
    def inner(x):
        if x:
            return x
        return 0
    return [inner(x) for x in xs]
`)
	got := scores(Analyze(result))
	if got["outer"] != 1 {
		t.Errorf("outer = %d, want 1 (inner's decision points must not leak)", got["outer"])
	}
	if got["inner"] != 2 {
		t.Errorf("inner = %d, want 2", got["inner"])
	}
}

func TestClassQualifiedNames(t *testing.T) {
	result := parse(t, `class Loader:
    def parse(self, data):
        if data:
            return data
        return None

    class Cursor:
        def advance(self):
            return 1
`)
	got := scores(Analyze(result))
	if got["Loader.parse"] != 2 {
		t.Errorf("Loader.parse = %d, want 2", got["Loader.parse"])
	}
	if _, ok := got["Loader.Cursor.advance"]; !ok {
		t.Errorf("missing record for Loader.Cursor.advance; got %v", got)
	}
}

func TestFunctionNestingDoesNotQualify(t *testing.T) {
	// Only class nesting contributes to qualified names.
	result := parse(t, `class Worker:
    def run(self):
        def step():
            return 1
        return step()
`)
	got := scores(Analyze(result))
	if _, ok := got["Worker.step"]; !ok {
		t.Errorf("nested function should be qualified by class path only; got %v", got)
	}
	if _, ok := got["Worker.run.step"]; ok {
		t.Error("function nesting must not appear in qualified names")
	}
}

func TestLambdaDoesNotLeak(t *testing.T) {
	result := parse(t, `def select(xs):
    keep = lambda x: x if x > 0 else -x
    return [keep(x) for x in xs]
`)
	got := scores(Analyze(result))
	if got["select"] != 1 {
		t.Errorf("select = %d, want 1 (lambda decision points must not leak)", got["select"])
	}
}

func TestDecoratedFunction(t *testing.T) {
	result := parse(t, `import functools

@functools.cache
def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
`)
	got := scores(Analyze(result))
	if got["fib"] != 2 {
		t.Errorf("fib = %d, want 2", got["fib"])
	}
}

func TestStartLines(t *testing.T) {
	result := parse(t, `def first():
    return 1

def second():
    return 2
`)
	records := Analyze(result)
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].StartLine != 1 {
		t.Errorf("first.StartLine = %d, want 1", records[0].StartLine)
	}
	if records[1].StartLine != 4 {
		t.Errorf("second.StartLine = %d, want 4", records[1].StartLine)
	}
}
