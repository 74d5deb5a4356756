package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

// OutputWriter prints command results to stdout and notices to stderr
type OutputWriter struct {
	jsonMode bool
	quiet    bool
	verbose  bool
	out      io.Writer
	errOut   io.Writer
	warnings []types.CLIWarning
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(out, errOut io.Writer, jsonMode, quiet, verbose bool) *OutputWriter {
	return &OutputWriter{
		jsonMode: jsonMode,
		quiet:    quiet,
		verbose:  verbose,
		out:      out,
		errOut:   errOut,
		warnings: []types.CLIWarning{},
	}
}

// AddWarning adds a warning to the output
func (w *OutputWriter) AddWarning(code, message, severity string) {
	w.warnings = append(w.warnings, types.CLIWarning{
		Code:     code,
		Message:  message,
		Severity: severity,
	})
}

// WriteSuccess writes a successful result
func (w *OutputWriter) WriteSuccess(command string, data interface{}) error {
	if w.jsonMode {
		return w.writeJSON(types.CLIOutput{
			SchemaVersion: utils.SchemaVersion,
			TraceID:       uuid.New().String(),
			Command:       command,
			Data:          data,
			Warnings:      w.warnings,
			Errors:        []types.CLIError{},
		})
	}
	return w.writeTable(data)
}

// WriteError writes an error result; errors are always JSON
func (w *OutputWriter) WriteError(command string, cliErr types.CLIError) error {
	return w.writeJSON(types.CLIOutput{
		SchemaVersion: utils.SchemaVersion,
		TraceID:       uuid.New().String(),
		Command:       command,
		Data:          nil,
		Warnings:      w.warnings,
		Errors:        []types.CLIError{cliErr},
	})
}

// WriteQueryFailure reports a query that was recovered from: the envelope in
// JSON mode, otherwise the message on stdout and any suggested action on
// stderr
func (w *OutputWriter) WriteQueryFailure(cliErr types.CLIError) error {
	if w.jsonMode {
		return w.WriteError("chspool", cliErr)
	}
	if _, err := fmt.Fprintln(w.out, cliErr.Message); err != nil {
		return err
	}
	if action, ok := cliErr.Context["suggestedAction"].(string); ok && !w.quiet {
		fmt.Fprintf(w.errOut, "Hint: %s\n", action)
	}
	return nil
}

func (w *OutputWriter) writeJSON(output types.CLIOutput) error {
	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (w *OutputWriter) writeTable(data interface{}) error {
	if !w.quiet {
		for _, warning := range w.warnings {
			fmt.Fprintf(w.errOut, "Warning [%s]: %s\n", warning.Code, warning.Message)
		}
	}

	if renderable, ok := data.(types.TableRenderable); ok {
		return w.renderTable(renderable.AsTableRenderer())
	}
	if renderer, ok := data.(types.TableRenderer); ok {
		return w.renderTable(renderer)
	}
	if kv, ok := data.(map[string]string); ok {
		return w.renderTable(keyValueTable(kv))
	}
	// Fallback to JSON for unknown types
	return w.writeJSON(types.CLIOutput{
		SchemaVersion: utils.SchemaVersion,
		Command:       "unknown",
		Data:          data,
		Warnings:      w.warnings,
		Errors:        []types.CLIError{},
	})
}

func (w *OutputWriter) renderTable(renderer types.TableRenderer) error {
	rows := renderer.Rows()
	if len(rows) == 0 {
		if !w.quiet {
			fmt.Fprintln(w.out, renderer.EmptyMessage())
		}
		return nil
	}

	table := tablewriter.NewWriter(w.out)
	table.SetHeader(renderer.Headers())
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
	return nil
}

// Log writes to stderr if not quiet
func (w *OutputWriter) Log(format string, args ...interface{}) {
	if !w.quiet {
		fmt.Fprintf(w.errOut, format+"\n", args...)
	}
}

// Verbose writes to stderr if verbose is enabled
func (w *OutputWriter) Verbose(format string, args ...interface{}) {
	if w.verbose {
		fmt.Fprintf(w.errOut, "[VERBOSE] "+format+"\n", args...)
	}
}

// keyValueTable renders a flat map as two columns, sorted by key
type keyValueTable map[string]string

func (t keyValueTable) Headers() []string { return []string{"Key", "Value"} }

func (t keyValueTable) Rows() [][]string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, t[k]})
	}
	return rows
}

func (t keyValueTable) EmptyMessage() string { return "Nothing to show." }
