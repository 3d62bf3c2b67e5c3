// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Details is the structured form of the build information, for
// machine-readable --format output.
type Details struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information. When -ldflags did not set the
// commit (go install, go run), the VCS stamp recorded by the Go
// toolchain is used instead.
func Get() Details {
	details := Details{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if details.Commit != "unknown" {
		return details
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return details
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) > 12 {
				details.Commit = setting.Value[:12]
			} else {
				details.Commit = setting.Value
			}
		case "vcs.modified":
			details.Dirty = setting.Value == "true"
		case "vcs.time":
			if details.BuildTime == "unknown" {
				details.BuildTime = setting.Value
			}
		}
	}
	return details
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	details := Get()
	dirty := ""
	if details.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", details.Version, details.Commit, dirty, details.BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	details := Get()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", Info(), details.GoVersion, details.Platform)
}

// Short returns just the version number.
func Short() string {
	return Version
}
