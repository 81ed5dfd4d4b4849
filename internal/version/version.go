// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns "version (commit)" for startup logging.
func Short() string {
	return Version + " (" + Commit + ")"
}
