package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/frankyxhl/fx-metrics/pkg/models"
)

// renderText writes the line-oriented report: two lines per file (one per
// metric), indented violation lines, then a summary table and pass/fail line.
func renderText(w io.Writer, report *models.RunReport, colored, verbose bool) error {
	for i := range report.Files {
		fr := &report.Files[i]

		fmt.Fprintf(w, "%s: max complexity %d %s\n",
			fr.Path, fr.MaxComplexity, mark(len(fr.ComplexityViolations) == 0, colored))
		writeFunctions(w, fr, colored, verbose)

		fmt.Fprintf(w, "%s: max nesting %d %s\n",
			fr.Path, fr.MaxNesting, mark(len(fr.NestingViolations) == 0, colored))
		for _, v := range fr.NestingViolations {
			fmt.Fprintf(w, "  line %d: %s (threshold: %d)\n", v.Line, value(v.Depth, true, colored), v.Ceiling)
		}
	}

	fmt.Fprintln(w)
	writeSummary(w, report)

	fmt.Fprintf(w, "%d files checked, %d failed, %d violations\n",
		report.Summary.TotalFiles, report.Summary.FailedFiles, report.Summary.TotalViolations())
	fmt.Fprintln(w, verdict(report.Passed(), colored))
	return nil
}

// writeFunctions prints the indented per-function lines under the complexity
// line: violations always, the rest only in verbose mode.
func writeFunctions(w io.Writer, fr *models.FileReport, colored, verbose bool) {
	violating := make(map[string]models.ComplexityViolation, len(fr.ComplexityViolations))
	for _, v := range fr.ComplexityViolations {
		violating[v.QualifiedName] = v
	}

	for _, fn := range fr.Functions {
		if v, ok := violating[fn.QualifiedName]; ok && v.Value == fn.Complexity {
			fmt.Fprintf(w, "  %s: %s (threshold: %d)\n",
				fn.QualifiedName, value(fn.Complexity, true, colored), v.Ceiling)
		} else if verbose {
			fmt.Fprintf(w, "  %s: %d\n", fn.QualifiedName, fn.Complexity)
		}
	}
}

func writeSummary(w io.Writer, report *models.RunReport) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)

	s := report.Summary
	table.Header([]string{"Files", "Functions", "Max Complexity", "Max Nesting", "Violations", "Skipped"})
	table.Append([]string{
		strconv.Itoa(s.TotalFiles),
		strconv.Itoa(s.TotalFunctions),
		strconv.Itoa(s.MaxComplexity),
		strconv.Itoa(s.MaxNesting),
		strconv.Itoa(s.TotalViolations()),
		strconv.Itoa(s.SkippedFiles),
	})
	table.Render()
	fmt.Fprintln(w)
}

func mark(pass, colored bool) string {
	if pass {
		if colored {
			return color.GreenString("✓")
		}
		return "✓"
	}
	if colored {
		return color.RedString("✗")
	}
	return "✗"
}

func value(v int, violating, colored bool) string {
	s := strconv.Itoa(v)
	if violating && colored {
		return color.RedString("%d", v)
	}
	return s
}

func verdict(pass, colored bool) string {
	if pass {
		if colored {
			return color.GreenString("PASS")
		}
		return "PASS"
	}
	if colored {
		return color.RedString("FAIL")
	}
	return "FAIL"
}
