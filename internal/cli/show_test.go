package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	testhelpers "github.com/dl-alexandre/chspool/internal/testing"
	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
)

func writeReportFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestShowTable(t *testing.T) {
	path := writeReportFile(t, "spool.json", `{"db.events":2048,"db.users":0}`)

	stdout, _, err := executeCommand(t, "", "show", path, "-q")
	testhelpers.AssertNoError(t, err, "execute")
	for _, want := range []string{"Table", "db.events", "2.0 KiB", "2048", "db.users", "0 B"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "db.events") > strings.Index(stdout, "db.users") {
		t.Errorf("rows out of report order:\n%s", stdout)
	}
}

func TestShowTableFormatFile(t *testing.T) {
	path := writeReportFile(t, "spool.txt", "db.t1 5\ndb.t2 0\n")

	stdout, _, err := executeCommand(t, "", "show", path, "--format", "table", "--json")
	testhelpers.AssertNoError(t, err, "execute")

	var envelope struct {
		Command string          `json:"command"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &envelope); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	testhelpers.AssertEqual(t, envelope.Command, "show", "command")

	var r types.SizeReport
	if err := json.Unmarshal(envelope.Data, &r); err != nil {
		t.Fatalf("invalid report data: %v", err)
	}
	tables := r.Tables()
	if len(tables) != 2 || tables[0] != "db.t1" || tables[1] != "db.t2" {
		t.Fatalf("tables = %v", tables)
	}
}

func TestShowEmptyReport(t *testing.T) {
	path := writeReportFile(t, "spool.json", `{}`)

	stdout, _, err := executeCommand(t, "", "show", path)
	testhelpers.AssertNoError(t, err, "execute")
	testhelpers.AssertEqual(t, stdout, "No distributed tables found.\n", "stdout")
}

func TestShowErrors(t *testing.T) {
	_, _, err := executeCommand(t, "", "show", filepath.Join(t.TempDir(), "missing.json"), "-q")
	testhelpers.AssertEqual(t, utils.ExitCodeFor(err), utils.ExitOutputFailed, "missing file")

	path := writeReportFile(t, "spool.json", `not json`)
	_, _, err = executeCommand(t, "", "show", path, "-q")
	testhelpers.AssertEqual(t, utils.ExitCodeFor(err), utils.ExitMalformedResponse, "malformed file")

	_, _, err = executeCommand(t, "", "show", path, "--format", "xml", "-q")
	testhelpers.AssertEqual(t, utils.ExitCodeFor(err), utils.ExitInvalidArgument, "bad format")
}
