package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
)

// Options is the resolved, read-only configuration of one report run
type Options struct {
	// OutputPath is where the size report is written
	OutputPath string

	// Format is the serialization of the report file
	Format types.OutputFormat

	// URL is the ClickHouse HTTP endpoint
	URL string

	// ConfigPath points at an optional JSON file with username and password
	ConfigPath string

	// KeyringUser names a keyring entry used when no config file is loaded
	KeyringUser string

	// Exclude holds gitignore-style patterns skipped while scanning
	Exclude []string

	// Timeout bounds the metadata query
	Timeout time.Duration
}

// DefaultOptions returns the options used when no flag or variable is set
func DefaultOptions() Options {
	return Options{
		Format:  types.OutputFormatJSON,
		URL:     utils.DefaultURL,
		Timeout: utils.QueryTimeout,
	}
}

// EnvOverrides holds the values taken from CHSPOOL_* variables
type EnvOverrides struct {
	URL        string
	Format     string
	ConfigPath string
}

// LoadEnv reads the CHSPOOL_* environment variables
func LoadEnv() EnvOverrides {
	return EnvOverrides{
		URL:        strings.TrimSpace(os.Getenv(utils.EnvPrefix + "URL")),
		Format:     strings.TrimSpace(os.Getenv(utils.EnvPrefix + "FORMAT")),
		ConfigPath: strings.TrimSpace(os.Getenv(utils.EnvPrefix + "CONFIG")),
	}
}

// Apply fills fields the caller left unset. Flags explicitly given on the
// command line win; the caller passes which ones those were.
func (e EnvOverrides) Apply(o Options, urlSet, formatSet, configSet bool) Options {
	if e.URL != "" && !urlSet {
		o.URL = e.URL
	}
	if e.Format != "" && !formatSet {
		o.Format = types.OutputFormat(e.Format)
	}
	if e.ConfigPath != "" && !configSet {
		o.ConfigPath = e.ConfigPath
	}
	return o
}

// Validate checks the options before any request is made. The URL is not
// checked here: a bad endpoint is a query failure, reported like any other.
func (o Options) Validate() error {
	if strings.TrimSpace(o.OutputPath) == "" {
		return fmt.Errorf("output file is required")
	}
	if _, err := types.ParseOutputFormat(string(o.Format)); err != nil {
		return err
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %s", o.Timeout)
	}
	return nil
}
