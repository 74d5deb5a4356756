package config

import (
	"testing"
	"time"

	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Format != types.OutputFormatJSON {
		t.Errorf("Format = %s, want json", o.Format)
	}
	if o.URL != "http://localhost:8123" {
		t.Errorf("URL = %s", o.URL)
	}
	if o.Timeout != 60*time.Second {
		t.Errorf("Timeout = %s", o.Timeout)
	}
}

func TestOptionsValidate(t *testing.T) {
	valid := DefaultOptions()
	valid.OutputPath = "/var/lib/chspool/report.json"
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	mutations := map[string]func(o *Options){
		"no output":    func(o *Options) { o.OutputPath = "" },
		"bad format":   func(o *Options) { o.Format = "csv" },
		"zero timeout": func(o *Options) { o.Timeout = 0 },
	}
	// Endpoint problems surface when the query is sent
	for _, u := range []string{"localhost:8123", "ftp://localhost", "http://", "http://[::1"} {
		o := valid
		o.URL = u
		if err := o.Validate(); err != nil {
			t.Errorf("Validate() with url %q error = %v", u, err)
		}
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			o := valid
			mutate(&o)
			if err := o.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(utils.EnvPrefix+"URL", "http://ch-01:8123")
	t.Setenv(utils.EnvPrefix+"FORMAT", "table")
	t.Setenv(utils.EnvPrefix+"CONFIG", "/etc/chspool/credentials.json")

	env := LoadEnv()

	o := env.Apply(DefaultOptions(), false, false, false)
	if o.URL != "http://ch-01:8123" || o.Format != types.OutputFormatTable || o.ConfigPath != "/etc/chspool/credentials.json" {
		t.Fatalf("env not applied: %+v", o)
	}

	flagged := DefaultOptions()
	flagged.URL = "http://ch-02:8123"
	o = env.Apply(flagged, true, true, true)
	if o.URL != "http://ch-02:8123" || o.Format != types.OutputFormatJSON || o.ConfigPath != "" {
		t.Fatalf("explicit flags should win: %+v", o)
	}
}
