// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time via ldflags:
//
//	-X github.com/open-cli-collective/mdattrs/internal/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build info for `mdattrs --version`.
func String() string {
	return fmt.Sprintf("mdattrs version %s (commit: %s, built: %s)", Version, Commit, Date)
}
