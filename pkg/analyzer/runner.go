package analyzer

import (
	"github.com/frankyxhl/fx-metrics/pkg/analyzer/complexity"
	"github.com/frankyxhl/fx-metrics/pkg/analyzer/nesting"
	"github.com/frankyxhl/fx-metrics/pkg/config"
	"github.com/frankyxhl/fx-metrics/pkg/models"
	"github.com/frankyxhl/fx-metrics/pkg/parser"
)

// Runner parses each file and runs both analyzers over it, checking results
// against the threshold policy. Files are processed strictly sequentially in
// the order given; output ordering is part of the CLI contract.
type Runner struct {
	parser *parser.Parser
	cfg    *config.Config
}

// RunOptions carries the optional per-file callbacks.
type RunOptions struct {
	// OnProgress is called once per processed file.
	OnProgress func()
	// Warnf receives non-fatal per-file diagnostics.
	Warnf func(format string, args ...any)
}

// NewRunner creates a runner with the given threshold policy.
func NewRunner(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Runner{
		parser: parser.New(),
		cfg:    cfg,
	}
}

// Close releases parser resources.
func (r *Runner) Close() {
	r.parser.Close()
}

// Run analyzes all files and aggregates the results. A file that cannot be
// read or parsed is reported as skipped and contributes nothing; it never
// aborts the run or affects the exit code.
func (r *Runner) Run(files []string, opts RunOptions) *models.RunReport {
	report := &models.RunReport{
		Files: make([]models.FileReport, 0, len(files)),
	}

	for _, path := range files {
		fr, err := r.analyzeFile(path)
		if err != nil {
			report.Skipped = append(report.Skipped, models.SkippedFile{
				Path:   path,
				Reason: err.Error(),
			})
			if opts.Warnf != nil {
				opts.Warnf("warning: skipping %s: %v", path, err)
			}
		} else {
			report.Files = append(report.Files, fr)
			r.accumulate(&report.Summary, &fr)
		}
		if opts.OnProgress != nil {
			opts.OnProgress()
		}
	}

	report.Summary.SkippedFiles = len(report.Skipped)
	return report
}

// analyzeFile runs both analyzers over one parsed file.
func (r *Runner) analyzeFile(path string) (models.FileReport, error) {
	result, err := r.parser.ParseFile(path)
	if err != nil {
		return models.FileReport{}, err
	}

	fr := models.FileReport{
		Path:      path,
		Functions: complexity.Analyze(result),
	}

	for _, fn := range fr.Functions {
		if fn.Complexity > fr.MaxComplexity {
			fr.MaxComplexity = fn.Complexity
		}
		ceiling := r.cfg.ComplexityCeiling(path, fn.QualifiedName)
		if fn.Complexity > ceiling {
			fr.ComplexityViolations = append(fr.ComplexityViolations, models.ComplexityViolation{
				QualifiedName: fn.QualifiedName,
				Value:         fn.Complexity,
				Ceiling:       ceiling,
				StartLine:     fn.StartLine,
			})
		}
	}

	depth := nesting.Analyze(result)
	fr.MaxNesting = depth.MaxDepth
	fr.NestingViolations = depth.Violations

	return fr, nil
}

func (r *Runner) accumulate(s *models.RunSummary, fr *models.FileReport) {
	s.TotalFiles++
	s.TotalFunctions += len(fr.Functions)
	if fr.MaxComplexity > s.MaxComplexity {
		s.MaxComplexity = fr.MaxComplexity
	}
	if fr.MaxNesting > s.MaxNesting {
		s.MaxNesting = fr.MaxNesting
	}
	s.ComplexityViolations += len(fr.ComplexityViolations)
	s.NestingViolations += len(fr.NestingViolations)
	if !fr.Clean() {
		s.FailedFiles++
	}
}
