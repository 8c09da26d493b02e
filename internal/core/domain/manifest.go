package domain

// Manifest describes the build source directory as loaded from disk:
// which strategy markers are present and the tool-native configuration
// read from them. It is read-only input; the engine never mutates it.
type Manifest struct {
	// Dir is the absolute path of the build source directory.
	Dir string

	// Strategy markers. At most the highest-priority one decides the build.
	HasGoMod      bool
	HasGopkgLock  bool
	HasGodepsJSON bool
	HasVendorJSON bool
	HasGlideYAML  bool
	HasSrcLayout  bool

	// HasGoSources reports whether any Go source file exists in the
	// directory at all. A directory with sources but no markers is
	// still buildable via the documented legacy fallback.
	HasGoSources bool

	// RootPackage is the import path declared by the tool configuration,
	// when it declares one (module path, Godeps ImportPath, glide name).
	RootPackage string

	// GoVersion is the runtime version requested by the tool
	// configuration, empty when not requested.
	GoVersion string

	// InstallTargets is the tool-native install directive, empty when
	// the configuration does not name install targets.
	InstallTargets []string

	// DetectedMains lists main packages found in the conventional
	// places (the directory root and cmd/<name>), in "./x" form. Used
	// as install targets when no directive names any.
	DetectedMains []string

	// SkipDependencySync opts out of the strategy's dependency-sync
	// step (vendor sync, fetch) via the tool configuration.
	SkipDependencySync bool

	// Hook script presence under bin/.
	HasPreCompileHook  bool
	HasPostCompileHook bool
}

// Hook script paths relative to the build directory.
const (
	PreCompileHook  = "bin/go-pre-compile"
	PostCompileHook = "bin/go-post-compile"
)
