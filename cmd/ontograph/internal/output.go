package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// OutputFormat is the value of the --output flag.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Formatter renders command results. Commands that only print a status
// line or a table go through it so -o json needs no extra code.
type Formatter interface {
	PrintSuccess(message string) error
	PrintError(message string) error
	// PrintTable renders rows under headers. Short rows are padded.
	PrintTable(headers []string, rows [][]string) error
	PrintJSON(data any) error
}

// TextFormatter writes themed, column-aligned text for a terminal.
type TextFormatter struct {
	writer io.Writer
	theme  *Theme
}

// NewTextFormatter writes to w, or stdout when w is nil.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: orStdout(w), theme: DefaultTheme()}
}

// Theme exposes the styles so commands can render their own sections.
func (f *TextFormatter) Theme() *Theme {
	return f.theme
}

func (f *TextFormatter) PrintSuccess(message string) error {
	return f.status(f.theme.StatusSuccess.Render("✓"), message)
}

func (f *TextFormatter) PrintError(message string) error {
	return f.status(f.theme.StatusFailed.Render("✗"), message)
}

func (f *TextFormatter) status(mark, message string) error {
	_, err := fmt.Fprintf(f.writer, "%s %s\n", mark, message)
	return err
}

// PrintTable upper-cases the headers and underlines each with dashes.
func (f *TextFormatter) PrintTable(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)

	titles := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		titles[i] = strings.ToUpper(h)
		rules[i] = strings.Repeat("-", len(h))
	}

	lines := append([][]string{titles, rules}, rows...)
	for _, cells := range lines {
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (f *TextFormatter) PrintJSON(data any) error {
	return writeIndented(f.writer, data)
}

// JSONFormatter writes every result as one indented JSON document.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter writes to w, or stdout when w is nil.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: orStdout(w)}
}

// PrintSuccess writes {"status": "success", "message": ...}.
func (f *JSONFormatter) PrintSuccess(message string) error {
	return f.PrintJSON(map[string]any{"status": "success", "message": message})
}

// PrintError writes {"status": "error", "message": ...}.
func (f *JSONFormatter) PrintError(message string) error {
	return f.PrintJSON(map[string]any{"status": "error", "message": message})
}

// PrintTable writes one object per row, keyed by header.
func (f *JSONFormatter) PrintTable(headers []string, rows [][]string) error {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			rec[h] = ""
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}
	return f.PrintJSON(records)
}

func (f *JSONFormatter) PrintJSON(data any) error {
	return writeIndented(f.writer, data)
}

// NewFormatter picks the formatter for format. Anything but json is text.
func NewFormatter(format OutputFormat, w io.Writer) Formatter {
	if format == FormatJSON {
		return NewJSONFormatter(w)
	}
	return NewTextFormatter(w)
}

func writeIndented(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func orStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
