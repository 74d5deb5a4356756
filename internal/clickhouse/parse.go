package clickhouse

import (
	"fmt"
	"strings"

	"github.com/dl-alexandre/chspool/internal/types"
)

// MalformedRowError reports a response line that is not "<table>\t<path>"
type MalformedRowError struct {
	Line   int
	Text   string
	Fields int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed response line %d: expected 2 fields, got %d: %q", e.Line, e.Fields, e.Text)
}

// ParseTables reads TabSeparated rows of (table, data_path). Blank lines are
// skipped; every other line must split on whitespace into exactly two fields.
func ParseTables(body string) ([]types.TableEntry, error) {
	var entries []types.TableEntry
	for i, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, &MalformedRowError{Line: i + 1, Text: line, Fields: len(fields)}
		}
		entries = append(entries, types.TableEntry{Identifier: fields[0], Path: fields[1]})
	}
	return entries, nil
}
