// Package version holds build information injected with -ldflags, e.g.
// -X github.com/jmylchreest/colourbalance/internal/version.Version=x.y.z.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash of the build.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"
)

// Info holds all version information for the application.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a human-readable version line.
func String() string {
	info := GetInfo()
	if Commit == "unknown" {
		return fmt.Sprintf("colourbalance %s (%s, %s)", info.Version, info.GoVersion, info.Platform)
	}
	commit := info.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return fmt.Sprintf("colourbalance %s (commit: %s, built: %s, %s, %s)",
		info.Version, commit, info.Date, info.GoVersion, info.Platform)
}
