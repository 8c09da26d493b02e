package ports

import "context"

// Installer fetches a tool release into a destination directory.
// Download and unpack mechanics are the adapter's concern; callers only
// see the resolved version string or an error surfaced verbatim.
//
//go:generate go run go.uber.org/mock/mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install ensures tool at versionSpec is available under dest and
	// returns the concrete version that was installed. versionSpec may
	// be an exact version or a range expression.
	Install(ctx context.Context, tool, versionSpec, dest string) (string, error)
}
