// Package version holds the kickabout build version, set by ldflags.
package version

// Version is the build version, printed by kickabout --version.
var Version = "v0.0.0-dev" //nolint:gochecknoglobals // Set by ldflags at build time.
