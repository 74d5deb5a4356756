package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/dl-alexandre/chspool/pkg/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func Get() *Info {
	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i *Info) String() string {
	return fmt.Sprintf("chspool %s (%s) built %s, %s %s", i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}

// UserAgent is the User-Agent header sent with every query
func (i *Info) UserAgent() string {
	return "chspool/" + i.Version
}

// AsMap flattens the info for key/value table output
func (i *Info) AsMap() map[string]string {
	return map[string]string{
		"version":   i.Version,
		"gitCommit": i.GitCommit,
		"buildTime": i.BuildTime,
		"goVersion": i.GoVersion,
		"platform":  i.Platform,
	}
}
