// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X nibra-chart/internal/version.GitCommit=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the long version line shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
