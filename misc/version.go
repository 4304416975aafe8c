// Package misc holds build time program metadata.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X uxkit/misc.version=... -X uxkit/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
	appName = "uxkit"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash the binary was built from, falling back on
// VCS information recorded by the Go toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

