// Package version reports build information of the cluster-info binary.
package version

import (
	"fmt"
	"runtime"
)

const Program = "cluster-info"

var (
	// set with -ldflags "-X github.com/neutree-ai/cluster-info/internal/version.appVersion=..."
	gitCommit  = "unknown"
	appVersion = "dev"
	buildTime  = "unknown"
)

type Info struct {
	Program    string `json:"program"`
	AppVersion string `json:"app_version"`
	GitCommit  string `json:"git_commit"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	return Info{
		Program:    Program,
		AppVersion: appVersion,
		GitCommit:  gitCommit,
		BuildTime:  buildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short is the one-line form, e.g. "cluster-info dev (unknown)".
func (i Info) Short() string {
	return fmt.Sprintf("%s %s (%s)", i.Program, i.AppVersion, i.GitCommit)
}

func (i Info) String() string {
	return fmt.Sprintf("%s\nBuild Time: %s\nGo Version: %s\nPlatform: %s",
		i.Short(), i.BuildTime, i.GoVersion, i.Platform)
}
