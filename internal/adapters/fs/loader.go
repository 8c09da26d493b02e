// Package fs implements filesystem adapters: the project manifest
// loader and small file helpers used around hook execution.
package fs

import (
	"encoding/json"
	"errors"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/zerr"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
)

var _ ports.ManifestLoader = (*Loader)(nil)

// Loader reads a project directory into a domain.Manifest.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new manifest Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Marker file names, one per strategy.
const (
	goModFile      = "go.mod"
	gopkgLockFile  = "Gopkg.lock"
	gopkgTomlFile  = "Gopkg.toml"
	godepsJSONFile = "Godeps/Godeps.json"
	vendorJSONFile = "vendor/vendor.json"
	glideYAMLFile  = "glide.yaml"
	srcDir         = "src"
)

// Load inspects dir and returns its manifest. The directory is never
// mutated.
func (l *Loader) Load(dir string) (*domain.Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve build directory")
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrManifestReadFailed, err), "dir", dir)
	}

	m := &domain.Manifest{
		Dir:           abs,
		HasGoMod:      fileExists(filepath.Join(abs, goModFile)),
		HasGopkgLock:  fileExists(filepath.Join(abs, gopkgLockFile)),
		HasGodepsJSON: fileExists(filepath.Join(abs, godepsJSONFile)),
		HasVendorJSON: fileExists(filepath.Join(abs, vendorJSONFile)),
		HasGlideYAML:  fileExists(filepath.Join(abs, glideYAMLFile)),
	}
	m.HasSrcLayout = hasGoFilesUnder(filepath.Join(abs, srcDir))
	m.HasGoSources = hasGoFilesUnder(abs)
	m.DetectedMains = detectMains(abs)
	m.HasPreCompileHook = fileExists(filepath.Join(abs, domain.PreCompileHook))
	m.HasPostCompileHook = fileExists(filepath.Join(abs, domain.PostCompileHook))

	// Tool-native configuration is read from the highest-priority
	// marker only; lower-priority configs are ignored on purpose.
	switch {
	case m.HasGoMod:
		err = l.readGoMod(filepath.Join(abs, goModFile), m)
	case m.HasGopkgLock:
		err = l.readGopkgToml(filepath.Join(abs, gopkgTomlFile), m)
	case m.HasGodepsJSON:
		err = l.readGodepsJSON(filepath.Join(abs, godepsJSONFile), m)
	case m.HasVendorJSON:
		err = l.readVendorJSON(filepath.Join(abs, vendorJSONFile), m)
	case m.HasGlideYAML:
		err = l.readGlideYAML(filepath.Join(abs, glideYAMLFile), m)
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

// herokuDirective is the comment prefix for build directives in go.mod.
const herokuDirective = "// +heroku "

func (l *Loader) readGoMod(path string, m *domain.Manifest) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is under the build directory
	if err != nil {
		return errors.Join(domain.ErrManifestReadFailed, err)
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return errors.Join(domain.ErrManifestParseFailed, err)
	}
	if f.Module != nil {
		m.RootPackage = f.Module.Mod.Path
	}
	if f.Go != nil && f.Go.Version != "" {
		m.GoVersion = "go" + f.Go.Version
	}

	// Directives override what the module file itself declares.
	for line := range strings.Lines(string(data)) {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), herokuDirective)
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "goVersion":
			m.GoVersion = fields[1]
		case "install":
			m.InstallTargets = fields[1:]
		}
	}
	return nil
}

type gopkgToml struct {
	Metadata struct {
		Heroku struct {
			RootPackage string   `toml:"root-package"`
			GoVersion   string   `toml:"go-version"`
			Install     []string `toml:"install"`
			Ensure      string   `toml:"ensure"`
		} `toml:"heroku"`
	} `toml:"metadata"`
}

func (l *Loader) readGopkgToml(path string, m *domain.Manifest) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is under the build directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// A lockfile without Gopkg.toml still builds with defaults.
			return nil
		}
		return errors.Join(domain.ErrManifestReadFailed, err)
	}

	var cfg gopkgToml
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return errors.Join(domain.ErrManifestParseFailed, err)
	}

	m.RootPackage = cfg.Metadata.Heroku.RootPackage
	m.GoVersion = cfg.Metadata.Heroku.GoVersion
	m.InstallTargets = cfg.Metadata.Heroku.Install
	m.SkipDependencySync = cfg.Metadata.Heroku.Ensure == "false"
	return nil
}

type godepsJSON struct {
	ImportPath string   `json:"ImportPath"`
	GoVersion  string   `json:"GoVersion"`
	Packages   []string `json:"Packages"`
}

func (l *Loader) readGodepsJSON(path string, m *domain.Manifest) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is under the build directory
	if err != nil {
		return errors.Join(domain.ErrManifestReadFailed, err)
	}

	var cfg godepsJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return errors.Join(domain.ErrManifestParseFailed, err)
	}

	m.RootPackage = cfg.ImportPath
	m.GoVersion = cfg.GoVersion
	m.InstallTargets = cfg.Packages
	return nil
}

type vendorJSON struct {
	RootPath string `json:"rootPath"`
	Heroku   struct {
		Install   []string `json:"install"`
		GoVersion string   `json:"goVersion"`
		Sync      *bool    `json:"sync"`
	} `json:"heroku"`
}

func (l *Loader) readVendorJSON(path string, m *domain.Manifest) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is under the build directory
	if err != nil {
		return errors.Join(domain.ErrManifestReadFailed, err)
	}

	var cfg vendorJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return errors.Join(domain.ErrManifestParseFailed, err)
	}

	m.RootPackage = cfg.RootPath
	m.GoVersion = cfg.Heroku.GoVersion
	m.InstallTargets = cfg.Heroku.Install
	m.SkipDependencySync = cfg.Heroku.Sync != nil && !*cfg.Heroku.Sync
	return nil
}

type glideYAML struct {
	Package string `yaml:"package"`
}

func (l *Loader) readGlideYAML(path string, m *domain.Manifest) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is under the build directory
	if err != nil {
		return errors.Join(domain.ErrManifestReadFailed, err)
	}

	var cfg glideYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Join(domain.ErrManifestParseFailed, err)
	}

	m.RootPackage = cfg.Package
	return nil
}

// detectMains lists main packages in the conventional places: the
// directory root and cmd/<name>. Paths come back in the "./x" form the
// go tool accepts, sorted for determinism.
func detectMains(root string) []string {
	var mains []string
	if dirHasMainPackage(root) {
		mains = append(mains, ".")
	}
	entries, err := os.ReadDir(filepath.Join(root, "cmd"))
	if err == nil {
		for _, e := range entries {
			if e.IsDir() && dirHasMainPackage(filepath.Join(root, "cmd", e.Name())) {
				mains = append(mains, "./cmd/"+e.Name())
			}
		}
	}
	sort.Strings(mains)
	return mains
}

// dirHasMainPackage reports whether any non-test .go file directly in
// dir declares package main. Only the package clause is parsed.
func dirHasMainPackage(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		if f.Name.Name == "main" {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// hasGoFilesUnder reports whether any .go file exists under root,
// skipping vendor trees. The walk stops at the first hit.
func hasGoFilesUnder(root string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are not markers
		}
		if d.IsDir() {
			if d.Name() == "vendor" || strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".go") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
