// Package version contains the application version information.
package version

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/skyglowlab/skyglow/internal/version.Version=...".
var Version = "dev"
