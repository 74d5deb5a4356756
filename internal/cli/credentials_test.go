package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/dl-alexandre/chspool/internal/auth"
	testhelpers "github.com/dl-alexandre/chspool/internal/testing"
	"github.com/dl-alexandre/chspool/internal/testing/mocks"
	"github.com/dl-alexandre/chspool/internal/utils"
)

func useMockStorage(t *testing.T) *mocks.MockStorage {
	t.Helper()
	storage := mocks.NewMockStorage()
	orig := newStorage
	newStorage = func() auth.StorageBackend { return storage }
	t.Cleanup(func() { newStorage = orig })
	return storage
}

func TestCredentialsSetFromFlag(t *testing.T) {
	storage := useMockStorage(t)

	stdout, _, err := executeCommand(t, "", "credentials", "set", "reader", "--password", "pw")
	testhelpers.AssertNoError(t, err, "execute")
	if !strings.Contains(stdout, "stored") {
		t.Errorf("stdout = %q", stdout)
	}

	got, err := storage.Load("reader")
	testhelpers.AssertNoError(t, err, "load")
	testhelpers.AssertEqual(t, got, "pw", "password")
}

func TestCredentialsSetFromStdin(t *testing.T) {
	storage := useMockStorage(t)

	_, _, err := executeCommand(t, "s3cret\n", "credentials", "set", "reader", "-q")
	testhelpers.AssertNoError(t, err, "execute")

	got, err := storage.Load("reader")
	testhelpers.AssertNoError(t, err, "load")
	testhelpers.AssertEqual(t, got, "s3cret", "password")

	_, _, err = executeCommand(t, "", "credentials", "set", "reader", "-q")
	testhelpers.AssertEqual(t, utils.ExitCodeFor(err), utils.ExitInvalidArgument, "empty stdin")
}

func TestCredentialsDelete(t *testing.T) {
	storage := useMockStorage(t)
	testhelpers.AssertNoError(t, storage.Save("reader", "pw"))

	_, _, err := executeCommand(t, "", "credentials", "delete", "reader", "-q")
	testhelpers.AssertNoError(t, err, "execute")
	if _, err := storage.Load("reader"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("Load() = %v, want ErrNotFound", err)
	}

	_, _, err = executeCommand(t, "", "credentials", "delete", "reader", "-q")
	testhelpers.AssertEqual(t, utils.ExitCodeFor(err), utils.ExitKeyringError, "second delete")
}

func TestReadPassword(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"pw\n", "pw", false},
		{"pw\r\nignored\n", "pw", false},
		{"no-newline", "no-newline", false},
		{"\n", "", false},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := readPassword(strings.NewReader(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("readPassword(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("readPassword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
