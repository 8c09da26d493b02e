package domain

import "strings"

// DefaultPackageSpec is the sentinel install target used when nothing
// else resolves: build the package in the current directory.
const DefaultPackageSpec = "."

// PackageSpec is the ordered list of install targets for a build.
type PackageSpec []string

// String renders the spec the way it is passed to the build tool.
func (p PackageSpec) String() string {
	return strings.Join(p, " ")
}

// IsDefault reports whether the spec is exactly the sentinel default.
func (p PackageSpec) IsDefault() bool {
	return len(p) == 1 && p[0] == DefaultPackageSpec
}

// ResolvePackageSpec picks the install targets for a build, in priority
// order: the explicit override, then the tool-native configuration
// directive, then the auto-detected main packages. When nothing resolves
// it falls back to the sentinel default; fellBack reports that the
// fallback was taken so the caller can surface a warning.
func ResolvePackageSpec(override string, configured, detected []string) (spec PackageSpec, fellBack bool) {
	if fields := strings.Fields(override); len(fields) > 0 {
		return PackageSpec(fields), false
	}
	if len(configured) > 0 {
		return PackageSpec(configured), false
	}
	if len(detected) > 0 {
		return PackageSpec(detected), false
	}
	return PackageSpec{DefaultPackageSpec}, true
}
