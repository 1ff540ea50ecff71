// Package version exposes build metadata set via -ldflags.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit the build was made from.
	Commit = "unknown"
)
