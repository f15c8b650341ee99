package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/frankyxhl/fx-metrics/pkg/analyzer"
	"github.com/frankyxhl/fx-metrics/pkg/config"
	"github.com/frankyxhl/fx-metrics/pkg/output"
	"github.com/frankyxhl/fx-metrics/pkg/progress"
	"github.com/frankyxhl/fx-metrics/pkg/scanner"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "fxmetrics",
		Usage:     "Complexity and nesting gate for Python code",
		Version:   fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		ArgsUsage: "<file-or-directory> [<file-or-directory> ...]",
		Description: `fxmetrics checks every function's cyclomatic complexity and every file's
maximum control-flow nesting depth against a threshold policy.

Exit codes: 0 no violations, 1 violations found, 2 usage error.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"FXMETRICS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write report to file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Disable the progress bar",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "List every function's complexity, not only violations",
			},
		},
		Commands: []*cli.Command{
			initCmd(),
		},
		Action: runCheck,
	}
}

func runCheck(c *cli.Context) error {
	if c.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s %s\n", c.App.Name, c.App.ArgsUsage)
		return cli.Exit("", 2)
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("fxmetrics: %v", err), 2)
	}

	if c.Bool("no-color") {
		color.NoColor = true
	}

	// Path validation is front-loaded: a bad argument fails the whole
	// invocation before any file is opened.
	scan := scanner.NewScanner(cfg)
	files, err := scan.Resolve(c.Args().Slice())
	if err != nil {
		return cli.Exit(fmt.Sprintf("fxmetrics: %v", err), 2)
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No Python source files found")
		return nil
	}

	runner := analyzer.NewRunner(cfg)
	defer runner.Close()

	opts := analyzer.RunOptions{
		Warnf: func(format string, args ...any) {
			fmt.Fprintln(os.Stderr, color.YellowString(format, args...))
		},
	}

	var tracker *progress.Tracker
	if !c.Bool("no-progress") && len(files) > 1 {
		tracker = progress.NewTracker("Analyzing...", len(files))
		opts.OnProgress = tracker.Tick
	}

	report := runner.Run(files, opts)
	if tracker != nil {
		tracker.Finish()
	}

	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	colored := cfg.Output.Color && !c.Bool("no-color")

	formatter, err := output.NewFormatter(output.ParseFormat(format), c.String("output"), colored,
		output.WithVerbose(c.Bool("verbose")))
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(report); err != nil {
		return err
	}

	if !report.Passed() {
		return cli.Exit("", 1)
	}
	return nil
}

// loadConfig loads the explicit config file when given, otherwise searches
// the standard locations.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrDefault(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}
