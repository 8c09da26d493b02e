// Package build holds build-time information.
package build

// Set via linker flags at release time.
var (
	// Version is the application version. Defaults to "dev".
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
