package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/google/renameio"
)

// FilePerm is the mode of written report files
const FilePerm os.FileMode = 0644

// Encode writes r in the given format
func Encode(w io.Writer, format types.OutputFormat, r *types.SizeReport) error {
	switch format {
	case types.OutputFormatJSON:
		return encodeJSON(w, r)
	case types.OutputFormatTable:
		return encodeTable(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// encodeJSON writes a single object, identifier to byte count
func encodeJSON(w io.Writer, r *types.SizeReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// encodeTable writes "<identifier> <size>" lines
func encodeTable(w io.Writer, r *types.SizeReport) error {
	bw := bufio.NewWriter(w)
	r.Each(func(table string, size int64) {
		bw.WriteString(table)
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatInt(size, 10))
		bw.WriteByte('\n')
	})
	return bw.Flush()
}

// Save replaces the file at path with the encoded report. The parent
// directory is created when missing, and readers see either the old file
// or the complete new one.
func Save(path string, format types.OutputFormat, r *types.SizeReport) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	pending, err := renameio.TempFile("", path)
	if err != nil {
		return fmt.Errorf("create temporary file for %s: %w", path, err)
	}
	defer pending.Cleanup()

	if err := Encode(pending, format, r); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pending.Chmod(FilePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Decode reads a report written by Encode
func Decode(rd io.Reader, format types.OutputFormat) (*types.SizeReport, error) {
	switch format {
	case types.OutputFormatJSON:
		return decodeJSON(rd)
	case types.OutputFormatTable:
		return decodeTable(rd)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func decodeJSON(rd io.Reader) (*types.SizeReport, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	r := types.NewSizeReport()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse json report: %w", err)
	}
	return r, nil
}

func decodeTable(rd io.Reader) (*types.SizeReport, error) {
	r := types.NewSizeReport()
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<table> <size>\", got %q", line, text)
		}
		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("line %d: invalid size %q", line, fields[1])
		}
		r.Set(fields[0], size)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// ErrNotFound is returned by Load when the report file does not exist
var ErrNotFound = errors.New("report not found")

// Load reads a report file
func Load(path string, format types.OutputFormat) (*types.SizeReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}
