package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dl-alexandre/chspool/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadCredentials(t *testing.T) {
	defaults := types.DefaultCredentials()

	tests := []struct {
		name       string
		path       func(t *testing.T) string
		wantStatus CredentialsStatus
		want       types.Credentials
	}{
		{
			name:       "loaded",
			path:       func(t *testing.T) string { return writeFile(t, "c.json", `{"username":"u","password":"p"}`) },
			wantStatus: CredentialsLoaded,
			want:       types.Credentials{Username: "u", Password: "p"},
		},
		{
			name:       "empty password is still loaded",
			path:       func(t *testing.T) string { return writeFile(t, "c.json", `{"username":"reader","password":""}`) },
			wantStatus: CredentialsLoaded,
			want:       types.Credentials{Username: "reader", Password: ""},
		},
		{
			name:       "no path",
			path:       func(t *testing.T) string { return "" },
			wantStatus: CredentialsAbsent,
			want:       defaults,
		},
		{
			name:       "missing file",
			path:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantStatus: CredentialsAbsent,
			want:       defaults,
		},
		{
			name:       "invalid json",
			path:       func(t *testing.T) string { return writeFile(t, "c.json", `{"username":`) },
			wantStatus: CredentialsMalformed,
			want:       defaults,
		},
		{
			name:       "missing password is not adopted partially",
			path:       func(t *testing.T) string { return writeFile(t, "c.json", `{"username":"u"}`) },
			wantStatus: CredentialsMalformed,
			want:       defaults,
		},
		{
			name:       "missing username",
			path:       func(t *testing.T) string { return writeFile(t, "c.json", `{"password":"p"}`) },
			wantStatus: CredentialsMalformed,
			want:       defaults,
		},
		{
			name:       "non-string field",
			path:       func(t *testing.T) string { return writeFile(t, "c.json", `{"username":1,"password":"p"}`) },
			wantStatus: CredentialsMalformed,
			want:       defaults,
		},
		{
			name:       "directory instead of file",
			path:       func(t *testing.T) string { return t.TempDir() },
			wantStatus: CredentialsMalformed,
			want:       defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LoadCredentials(tt.path(t))
			if result.Status != tt.wantStatus {
				t.Fatalf("Status = %s, want %s (err: %v)", result.Status, tt.wantStatus, result.Err)
			}
			if got := result.Effective(); got != tt.want {
				t.Fatalf("Effective() = %+v, want %+v", got, tt.want)
			}
			if tt.wantStatus == CredentialsMalformed && result.Err == nil {
				t.Fatalf("malformed result should carry an error")
			}
		})
	}
}
