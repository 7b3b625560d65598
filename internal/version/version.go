package version

import "runtime"

// Build information. Populated at build-time via ldflags:
//
//	-X github.com/zgpcy/timesource/internal/version.Version=v1.0.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information keyed by the build_info metric labels
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
	}
}

// String renders the version for startup logs
func String() string {
	return Version + " (" + GitCommit + ", built " + BuildDate + ")"
}
