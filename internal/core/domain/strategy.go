// Package domain contains core domain types for the build engine.
package domain

// ToolStrategy identifies the dependency-management tool driving a build.
// Exactly one strategy is selected per build and it never changes afterwards.
type ToolStrategy uint8

const (
	// StrategyModules builds with the Go module system (go.mod).
	StrategyModules ToolStrategy = iota
	// StrategyDep builds with dep (Gopkg.lock).
	StrategyDep
	// StrategyGodep builds with godep (Godeps/Godeps.json).
	StrategyGodep
	// StrategyGovendor builds with govendor (vendor/vendor.json).
	StrategyGovendor
	// StrategyGlide builds with glide (glide.yaml).
	StrategyGlide
	// StrategyGB builds a gb-style workspace (src/ source layout).
	StrategyGB
)

// String returns the tool name for the strategy.
func (s ToolStrategy) String() string {
	switch s {
	case StrategyModules:
		return "go-modules"
	case StrategyDep:
		return "dep"
	case StrategyGodep:
		return "godep"
	case StrategyGovendor:
		return "govendor"
	case StrategyGlide:
		return "glide"
	case StrategyGB:
		return "gb"
	default:
		return "unknown"
	}
}

// strategyMarker pairs a manifest marker with the strategy it selects.
// The slice order is the detection precedence: the module system first,
// legacy vendoring tools after it, the workspace layout last.
type strategyMarker struct {
	present  func(*Manifest) bool
	strategy ToolStrategy
}

var strategyMarkers = []strategyMarker{
	{func(m *Manifest) bool { return m.HasGoMod }, StrategyModules},
	{func(m *Manifest) bool { return m.HasGopkgLock }, StrategyDep},
	{func(m *Manifest) bool { return m.HasGodepsJSON }, StrategyGodep},
	{func(m *Manifest) bool { return m.HasVendorJSON }, StrategyGovendor},
	{func(m *Manifest) bool { return m.HasGlideYAML }, StrategyGlide},
	{func(m *Manifest) bool { return m.HasSrcLayout }, StrategyGB},
}

// DetectStrategy selects the build-tool strategy for the manifest.
// Markers are checked in fixed precedence order and the first match wins.
// It returns ErrNoStrategy when no marker is present; the caller decides
// whether a fallback applies.
func DetectStrategy(m *Manifest) (ToolStrategy, error) {
	for _, marker := range strategyMarkers {
		if marker.present(m) {
			return marker.strategy, nil
		}
	}
	return StrategyModules, ErrNoStrategy
}
