// Package config loads the build configuration from the environment.
package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.trai.ch/zerr"

	"github.com/stackmill/gopack/internal/core/domain"
)

// Config holds every recognized option, populated once at startup and
// passed down. Nothing else reads the environment after this.
type Config struct {
	// PackageSpecOverride is the explicit install-target override. It
	// outranks any tool-native directive.
	PackageSpecOverride string

	// DisableCache turns the build cache off entirely.
	DisableCache bool

	// CacheRoot is the cache directory root. Defaults to the per-user
	// cache directory.
	CacheRoot string

	// CacheDirs overrides the default cached directory set. Paths are
	// relative to the build root.
	CacheDirs []string

	// ModuleCacheDir selects an alternate module-cache location inside
	// the build directory.
	ModuleCacheDir string

	// SkipFetch skips the strategy's dependency-sync step.
	SkipFetch bool

	// LinkSymbol and LinkValue form the linker-injected symbol/value
	// pair. Both must be set for the pair to take effect.
	LinkSymbol string
	LinkValue  string

	// Stack is the platform stack identifier, part of the cache
	// signature.
	Stack string

	// Git credentials for fetching private dependencies. When set, a
	// temporary netrc file is provided to subprocesses for the
	// duration of the build. Host requires user and password.
	GitCredHost     string
	GitCredUser     string
	GitCredPassword string
}

// DefaultStack is used when the platform does not announce a stack.
const DefaultStack = "stackmill-24"

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GOPACK")
	v.AutomaticEnv()

	// The stack id comes from the platform, not from our prefix.
	_ = v.BindEnv("stack", "STACK")

	cfg := &Config{
		PackageSpecOverride: v.GetString("install_package_spec"),
		DisableCache:        v.GetBool("disable_cache"),
		CacheRoot:           v.GetString("cache_root"),
		CacheDirs:           strings.Fields(v.GetString("cache_dirs")),
		ModuleCacheDir:      v.GetString("module_cache_dir"),
		SkipFetch:           v.GetBool("skip_fetch"),
		LinkSymbol:          v.GetString("ldflags_symbol"),
		LinkValue:           v.GetString("ldflags_value"),
		Stack:               v.GetString("stack"),
		GitCredHost:         v.GetString("git_cred_host"),
		GitCredUser:         v.GetString("git_cred_user"),
		GitCredPassword:     v.GetString("git_cred_password"),
	}

	if cfg.CacheRoot == "" {
		cfg.CacheRoot = domain.DefaultCacheRoot()
	}
	if cfg.Stack == "" {
		cfg.Stack = DefaultStack
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, dir := range c.CacheDirs {
		if filepath.IsAbs(dir) {
			return invalid("cache_dir", dir)
		}
		if strings.HasPrefix(filepath.Clean(dir), "..") {
			return invalid("cache_dir", dir)
		}
	}
	if c.ModuleCacheDir != "" && filepath.IsAbs(c.ModuleCacheDir) {
		return invalid("module_cache_dir", c.ModuleCacheDir)
	}
	if c.GitCredHost != "" && (c.GitCredUser == "" || c.GitCredPassword == "") {
		return invalid("git_cred_host", c.GitCredHost)
	}
	return nil
}

// invalid decorates the sentinel while keeping it in the error chain,
// so callers can match it with errors.Is.
func invalid(key, value string) error {
	return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, ""), key, value)
}
