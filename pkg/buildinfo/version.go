// Package buildinfo holds version information stamped in at build time.
//
// Set the variables with ldflags:
//
//	go build -ldflags "-X github.com/Gor-c/emind/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/Gor-c/emind/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/emind
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the build information as a multi-line string.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", Version, commit(), Date, goVersion())
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, commit(), Date)
}

// CacheScope returns the namespace used for cached artifacts. Dev builds
// share one scope; releases each get their own.
func CacheScope() string {
	if Version == "dev" {
		return "dev"
	}
	return Version
}

// commit falls back to the VCS revision embedded by the go tool.
func commit() string {
	if Commit != "none" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return Commit
}

func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}
