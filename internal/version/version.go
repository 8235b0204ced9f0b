package version

import "fmt"

// Version contains the application version information.
// Set it at build time:
// go build -ldflags "-X git.home.luguber.info/inful/blockmark/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, set the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("blockmark %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
