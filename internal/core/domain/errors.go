package domain

import "go.trai.ch/zerr"

var (
	// ErrNoStrategy is returned when no strategy marker matches the
	// project directory.
	ErrNoStrategy = zerr.New("no dependency-management tool detected")

	// ErrNoBuildableSource is returned when the directory has neither
	// strategy markers nor Go sources; detection cannot fall back.
	ErrNoBuildableSource = zerr.New("no buildable Go source found")

	// ErrInstallFailed is returned when a required runtime or tool
	// binary could not be installed.
	ErrInstallFailed = zerr.New("tool installation failed")

	// ErrVersionNotFound is returned when no available release satisfies
	// the requested version expression.
	ErrVersionNotFound = zerr.New("no release matches requested version")

	// ErrBuildFailed is returned when the underlying build command
	// exits non-zero.
	ErrBuildFailed = zerr.New("build command failed")

	// ErrDependencySyncFailed is returned when the strategy's
	// dependency-sync step fails.
	ErrDependencySyncFailed = zerr.New("dependency sync failed")

	// ErrHookFailed is returned when a pre- or post-compile hook exits
	// non-zero.
	ErrHookFailed = zerr.New("hook script failed")

	// ErrUnknownStrategy is returned by the executor factory for a
	// strategy value outside the closed set.
	ErrUnknownStrategy = zerr.New("unknown tool strategy")

	// ErrManifestReadFailed is returned when the project configuration
	// cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read project manifest")

	// ErrManifestParseFailed is returned when a tool configuration file
	// cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse tool configuration")

	// ErrReportWriteFailed is returned when the build report cannot be
	// persisted.
	ErrReportWriteFailed = zerr.New("failed to persist build report")

	// ErrConfigInvalid is returned when the startup configuration fails
	// validation.
	ErrConfigInvalid = zerr.New("invalid configuration")
)
