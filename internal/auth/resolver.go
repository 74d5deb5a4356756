package auth

import (
	"github.com/dl-alexandre/chspool/internal/config"
	"github.com/dl-alexandre/chspool/internal/logging"
	"github.com/dl-alexandre/chspool/internal/types"
)

// Source names where the credentials of a run came from
type Source string

const (
	SourceConfigFile Source = "config-file"
	SourceKeyring    Source = "keyring"
	SourceDefault    Source = "default"
)

// Resolver picks the credentials for a run: config file, then keyring, then
// the built-in default account. Problems with the first two are logged and
// the next source is tried.
type Resolver struct {
	storage StorageBackend
	logger  logging.Logger
}

// NewResolver creates a resolver; storage may be nil when no keyring is used
func NewResolver(storage StorageBackend, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Resolver{storage: storage, logger: logger}
}

// Resolve returns the credentials to send and their source
func (r *Resolver) Resolve(configPath, keyringUser string) (types.Credentials, Source) {
	result := config.LoadCredentials(configPath)
	switch result.Status {
	case config.CredentialsLoaded:
		r.logger.Debug("Using credentials from config file",
			logging.F("path", configPath),
			logging.F("username", result.Credentials.Username),
		)
		return result.Credentials, SourceConfigFile
	case config.CredentialsMalformed:
		r.logger.Warn("Ignoring unusable config file",
			logging.F("path", configPath),
			logging.F("error", result.Err.Error()),
		)
	}

	if keyringUser != "" && r.storage != nil {
		password, err := r.storage.Load(keyringUser)
		if err == nil {
			r.logger.Debug("Using credentials from keyring",
				logging.F("backend", r.storage.Name()),
				logging.F("username", keyringUser),
			)
			return types.Credentials{Username: keyringUser, Password: password}, SourceKeyring
		}
		r.logger.Warn("Keyring lookup failed",
			logging.F("backend", r.storage.Name()),
			logging.F("username", keyringUser),
			logging.F("error", err.Error()),
		)
	}

	return result.Effective(), SourceDefault
}
