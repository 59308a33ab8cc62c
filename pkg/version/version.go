// Package version exposes the build version string for the CLI.
package version

// version is set at build time via -ldflags "-X batchme/pkg/version.version=...".
//
//nolint:gochecknoglobals // Overridden by the linker at release build time.
var version = "0.1.0-dev"

// GetVersion returns the version string embedded in the binary.
func GetVersion() string {
	return version
}
