package types

import "fmt"

// OutputFormat selects how a size report is serialized
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// OutputFormats lists the accepted values of --format
var OutputFormats = []OutputFormat{OutputFormatJSON, OutputFormatTable}

// ParseOutputFormat validates a format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range OutputFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid output format: %s (must be 'json' or 'table')", s)
}

// GlobalFlags holds the persistent flags shared by every command
type GlobalFlags struct {
	Quiet   bool
	Verbose bool
	Debug   bool
	LogFile string
	JSON    bool
	Strict  bool
}

// CLIOutput is the envelope printed by auxiliary commands in JSON mode
type CLIOutput struct {
	SchemaVersion string       `json:"schemaVersion"`
	TraceID       string       `json:"traceId,omitempty"`
	Command       string       `json:"command"`
	Data          interface{}  `json:"data"`
	Warnings      []CLIWarning `json:"warnings"`
	Errors        []CLIError   `json:"errors"`
}

// CLIWarning is a non-fatal condition reported alongside a result
type CLIWarning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// CLIError describes a failure in a stable, machine readable way
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"httpStatus,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

type TableRenderer interface {
	Headers() []string
	Rows() [][]string
	EmptyMessage() string
}

type TableRenderable interface {
	AsTableRenderer() TableRenderer
}
