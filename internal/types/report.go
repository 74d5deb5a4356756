package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// TableEntry is one row of the distributed table listing
type TableEntry struct {
	Identifier string `json:"table"`
	Path       string `json:"dataPath"`
}

// Credentials are the basic auth user and password sent to the server
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DefaultCredentials returns the built-in server account
func DefaultCredentials() Credentials {
	return Credentials{Username: "default", Password: ""}
}

// SizeReport maps a table identifier to the bytes queued in its data path.
// Keys iterate in first-insertion order; Set on an existing key replaces the
// value in place.
type SizeReport struct {
	keys  []string
	sizes map[string]int64
}

// NewSizeReport creates an empty report
func NewSizeReport() *SizeReport {
	return &SizeReport{sizes: make(map[string]int64)}
}

// Set records the size for a table, overwriting any earlier value
func (r *SizeReport) Set(table string, size int64) {
	if r.sizes == nil {
		r.sizes = make(map[string]int64)
	}
	if _, ok := r.sizes[table]; !ok {
		r.keys = append(r.keys, table)
	}
	r.sizes[table] = size
}

// Get returns the size recorded for a table
func (r *SizeReport) Get(table string) (int64, bool) {
	size, ok := r.sizes[table]
	return size, ok
}

// Len returns the number of tables in the report
func (r *SizeReport) Len() int {
	return len(r.keys)
}

// Tables returns the identifiers in report order
func (r *SizeReport) Tables() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Total returns the sum of all sizes
func (r *SizeReport) Total() int64 {
	var total int64
	for _, size := range r.sizes {
		total += size
	}
	return total
}

// Each calls fn for every entry in report order
func (r *SizeReport) Each(fn func(table string, size int64)) {
	for _, k := range r.keys {
		fn(k, r.sizes[k])
	}
}

// MarshalJSON writes the report as a single object, preserving order
func (r *SizeReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(r.sizes[k], 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of integer sizes, keeping the key order of
// the document
func (r *SizeReport) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("size report must be a JSON object")
	}

	*r = SizeReport{sizes: make(map[string]int64)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", tok)
		}
		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("size of %s: %w", key, err)
		}
		size, err := n.Int64()
		if err != nil {
			return fmt.Errorf("size of %s: %w", key, err)
		}
		r.Set(key, size)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// AsTableRenderer exposes the report to the table output writer
func (r *SizeReport) AsTableRenderer() TableRenderer {
	return sizeReportTable{report: r}
}

type sizeReportTable struct {
	report *SizeReport
}

func (t sizeReportTable) Headers() []string {
	return []string{"Table", "Size", "Bytes"}
}

func (t sizeReportTable) Rows() [][]string {
	rows := make([][]string, 0, t.report.Len())
	t.report.Each(func(table string, size int64) {
		rows = append(rows, []string{table, FormatBytes(size), strconv.FormatInt(size, 10)})
	})
	return rows
}

func (t sizeReportTable) EmptyMessage() string {
	return "No distributed tables found."
}

// FormatBytes renders a byte count with a binary unit suffix
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}
