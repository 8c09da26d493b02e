// Package ports defines the core interfaces for the application.
package ports

import "github.com/stackmill/gopack/internal/core/domain"

// ManifestLoader reads a project directory into a Manifest: which
// strategy markers are present and the tool-native configuration found
// in them. Loading is a pure read; nothing in the directory is mutated.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load inspects dir and returns its manifest. It fails when the
	// directory does not exist or a present tool configuration cannot
	// be parsed.
	Load(dir string) (*domain.Manifest, error)
}
