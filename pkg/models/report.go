package models

// FunctionRecord holds the cyclomatic complexity computed for one function.
// Nested functions get their own record; only class nesting contributes to the
// qualified name. Records are immutable once created.
type FunctionRecord struct {
	// QualifiedName is the dot-joined class path plus function name,
	// e.g. "Loader.parse" or "fetch" for a module-level function.
	QualifiedName string `json:"qualified_name" toon:"qualified_name"`
	Complexity    int    `json:"complexity" toon:"complexity"`
	StartLine     uint32 `json:"start_line" toon:"start_line"`
}

// ComplexityViolation is a function whose complexity exceeds its ceiling.
type ComplexityViolation struct {
	QualifiedName string `json:"qualified_name" toon:"qualified_name"`
	Value         int    `json:"value" toon:"value"`
	Ceiling       int    `json:"ceiling" toon:"ceiling"`
	StartLine     uint32 `json:"start_line" toon:"start_line"`
}

// NestingViolation marks a point where control-flow nesting exceeded the
// ceiling. Depth is always greater than the ceiling.
type NestingViolation struct {
	Line    uint32 `json:"line" toon:"line"`
	Depth   int    `json:"depth" toon:"depth"`
	Kind    string `json:"kind" toon:"kind"`
	Ceiling int    `json:"ceiling" toon:"ceiling"`
}

// FileReport aggregates both metrics for one source file. It is built once per
// file and consumed immediately by the reporter.
type FileReport struct {
	Path                 string                `json:"path" toon:"path"`
	Functions            []FunctionRecord      `json:"functions" toon:"functions"`
	MaxComplexity        int                   `json:"max_complexity" toon:"max_complexity"`
	MaxNesting           int                   `json:"max_nesting" toon:"max_nesting"`
	ComplexityViolations []ComplexityViolation `json:"complexity_violations,omitempty" toon:"complexity_violations"`
	NestingViolations    []NestingViolation    `json:"nesting_violations,omitempty" toon:"nesting_violations"`
}

// Clean reports whether the file has no violations of either metric.
func (f *FileReport) Clean() bool {
	return len(f.ComplexityViolations) == 0 && len(f.NestingViolations) == 0
}

// SkippedFile records a file that could not be analyzed. Skipped files are
// warnings; they never fail a run.
type SkippedFile struct {
	Path   string `json:"path" toon:"path"`
	Reason string `json:"reason" toon:"reason"`
}

// RunReport is the result of analyzing all resolved files, in scan order.
type RunReport struct {
	Files   []FileReport  `json:"files" toon:"files"`
	Skipped []SkippedFile `json:"skipped,omitempty" toon:"skipped"`
	Summary RunSummary    `json:"summary" toon:"summary"`
}

// RunSummary holds the run-wide aggregates.
type RunSummary struct {
	TotalFiles           int `json:"total_files" toon:"total_files"`
	TotalFunctions       int `json:"total_functions" toon:"total_functions"`
	MaxComplexity        int `json:"max_complexity" toon:"max_complexity"`
	MaxNesting           int `json:"max_nesting" toon:"max_nesting"`
	ComplexityViolations int `json:"complexity_violations" toon:"complexity_violations"`
	NestingViolations    int `json:"nesting_violations" toon:"nesting_violations"`
	FailedFiles          int `json:"failed_files" toon:"failed_files"`
	SkippedFiles         int `json:"skipped_files" toon:"skipped_files"`
}

// TotalViolations returns the number of violations across both metrics.
func (s RunSummary) TotalViolations() int {
	return s.ComplexityViolations + s.NestingViolations
}

// Passed reports whether the run found zero violations.
func (r *RunReport) Passed() bool {
	return r.Summary.TotalViolations() == 0
}
