package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dl-alexandre/chspool/internal/types"
)

// CredentialsStatus tells how a credentials file was resolved
type CredentialsStatus int

const (
	// CredentialsAbsent means no file was given or it does not exist
	CredentialsAbsent CredentialsStatus = iota
	// CredentialsMalformed means the file exists but could not be used
	CredentialsMalformed
	// CredentialsLoaded means both fields were read from the file
	CredentialsLoaded
)

func (s CredentialsStatus) String() string {
	switch s {
	case CredentialsLoaded:
		return "loaded"
	case CredentialsMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// CredentialsResult is the outcome of LoadCredentials. Credentials is only
// meaningful when Status is CredentialsLoaded; Err is set for Malformed.
type CredentialsResult struct {
	Status      CredentialsStatus
	Credentials types.Credentials
	Err         error
}

// Effective returns the loaded credentials, or the defaults when the file
// was absent or malformed. A broken file never stops a run.
func (r CredentialsResult) Effective() types.Credentials {
	if r.Status == CredentialsLoaded {
		return r.Credentials
	}
	return types.DefaultCredentials()
}

type credentialsFile struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// LoadCredentials reads {"username": ..., "password": ...} from path.
// Both fields must be present strings; nothing is adopted partially.
func LoadCredentials(path string) CredentialsResult {
	if path == "" {
		return CredentialsResult{Status: CredentialsAbsent}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CredentialsResult{Status: CredentialsAbsent}
		}
		return malformed(fmt.Errorf("read config file: %w", err))
	}

	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return malformed(fmt.Errorf("parse config file: %w", err))
	}
	if file.Username == nil {
		return malformed(fmt.Errorf("config file %s: username is missing", path))
	}
	if file.Password == nil {
		return malformed(fmt.Errorf("config file %s: password is missing", path))
	}

	return CredentialsResult{
		Status: CredentialsLoaded,
		Credentials: types.Credentials{
			Username: *file.Username,
			Password: *file.Password,
		},
	}
}

func malformed(err error) CredentialsResult {
	return CredentialsResult{Status: CredentialsMalformed, Err: err}
}
