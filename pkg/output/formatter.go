package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	toon "github.com/toon-format/toon-go"

	"github.com/frankyxhl/fx-metrics/pkg/models"
)

// Format represents an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatToon Format = "toon"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "toon":
		return FormatToon
	default:
		return FormatText
	}
}

// Formatter writes run reports in the configured format.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
	verbose bool
}

// Option is a functional option for configuring Formatter.
type Option func(*Formatter)

// WithVerbose enables the per-function listing in text output.
func WithVerbose(verbose bool) Option {
	return func(f *Formatter) {
		f.verbose = verbose
	}
}

// NewFormatter creates a new formatter. When output names a file, the report
// is written there and coloring is disabled.
func NewFormatter(format Format, output string, colored bool, opts ...Option) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		writer = f
		file = f
		colored = false
	}

	f := &Formatter{
		format:  format,
		writer:  writer,
		file:    file,
		colored: colored,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Close closes the formatter's writer if it's a file.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Format returns the configured format.
func (f *Formatter) Format() Format {
	return f.format
}

// Output writes the report in the configured format.
func (f *Formatter) Output(report *models.RunReport) error {
	switch f.format {
	case FormatJSON:
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case FormatToon:
		out, err := toon.Marshal(report, toon.WithIndent(2))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.writer, string(out))
		return err
	default:
		return renderText(f.writer, report, f.colored, f.verbose)
	}
}
