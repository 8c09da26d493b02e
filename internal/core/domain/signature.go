package domain

import "strings"

// Signature fingerprints the toolchain a cache was populated with.
// Two signatures are equal iff every component matches exactly.
type Signature string

// signatureSeparator keeps adjacent components from colliding:
// ("1","23") and ("12","3") must produce different signatures.
const signatureSeparator = "|"

// ComputeSignature derives the cache signature from the runtime version,
// the package-manager version and the platform stack identifier.
// It is a pure function of its inputs.
func ComputeSignature(runtimeVersion, pmVersion, stackID string) Signature {
	return Signature(strings.Join([]string{runtimeVersion, pmVersion, stackID}, signatureSeparator))
}

// CacheState classifies the persisted cache relative to the current build.
type CacheState uint8

const (
	// CacheDisabled means the user turned caching off for this build.
	CacheDisabled CacheState = iota
	// CacheValid means the stored signature matches the current one.
	CacheValid
	// CacheNewSignature means the toolchain changed since the cache was
	// written; nothing may be restored from it.
	CacheNewSignature
	// CacheEmpty means no prior signature exists.
	CacheEmpty
)

// String returns the state name used in logs and the build report.
func (s CacheState) String() string {
	switch s {
	case CacheDisabled:
		return "disabled"
	case CacheValid:
		return "valid"
	case CacheNewSignature:
		return "new-signature"
	case CacheEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ClassifyCache compares the current signature against the stored one.
// An absent stored signature is represented by the empty Signature.
// The disabled flag wins over everything else.
func ClassifyCache(current, stored Signature, disabled bool) CacheState {
	switch {
	case disabled:
		return CacheDisabled
	case stored == "":
		return CacheEmpty
	case current == stored:
		return CacheValid
	default:
		return CacheNewSignature
	}
}
