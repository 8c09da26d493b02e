// Package toolchain installs runtime and package-manager releases.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"

	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
)

var _ ports.Installer = (*Installer)(nil)

// DefaultDistURL is the release mirror used when none is configured.
const DefaultDistURL = "https://dist.stackmill.io/toolchain"

// defaultReleases lists the published versions per tool, newest last.
// The inventory is what version expressions resolve against.
var defaultReleases = map[string][]string{
	"go":       {"1.21.13", "1.22.12", "1.23.10", "1.24.6"},
	"dep":      {"0.5.0", "0.5.4"},
	"godep":    {"79.0.0", "80.0.0"},
	"govendor": {"1.0.8", "1.0.9"},
	"glide":    {"0.13.2", "0.13.3"},
	"gb":       {"0.4.3", "0.4.4"},
}

// Installer implements ports.Installer by resolving a version
// expression against the release inventory and unpacking the matching
// release tarball into the destination.
type Installer struct {
	client   *http.Client
	distURL  string
	releases map[string][]string
	logger   ports.Logger
}

// NewInstaller creates an Installer using the default release mirror.
func NewInstaller(logger ports.Logger) *Installer {
	return &Installer{
		client:   http.DefaultClient,
		distURL:  DefaultDistURL,
		releases: defaultReleases,
		logger:   logger,
	}
}

// WithDistURL overrides the release mirror. Used for testing.
func (i *Installer) WithDistURL(url string) *Installer {
	i.distURL = url
	return i
}

// WithReleases overrides the release inventory. Used for testing.
func (i *Installer) WithReleases(releases map[string][]string) *Installer {
	i.releases = releases
	return i
}

// Install ensures tool at versionSpec is unpacked under dest and
// returns the concrete version installed. versionSpec may be empty
// (latest), exact ("go1.22.12") or a range ("1.22.x").
func (i *Installer) Install(ctx context.Context, tool, versionSpec, dest string) (string, error) {
	version, err := i.resolve(tool, versionSpec)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/%s-%s.%s-%s.tar.gz", i.distURL, tool, tool, version, runtime.GOOS, runtime.GOARCH)
	i.logger.Info(fmt.Sprintf("installing %s %s", tool, version))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Join(domain.ErrInstallFailed, err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrInstallFailed, err), "tool", tool)
	}
	defer resp.Body.Close() //nolint:errcheck // best effort close in defer

	if resp.StatusCode != http.StatusOK {
		installErr := zerr.With(zerr.Wrap(domain.ErrInstallFailed, "release download failed"), "tool", tool)
		installErr = zerr.With(installErr, "version", version)
		return "", zerr.With(installErr, "status", resp.StatusCode)
	}

	if err := untar(resp.Body, dest); err != nil {
		return "", zerr.With(errors.Join(domain.ErrInstallFailed, err), "tool", tool)
	}

	return version, nil
}

// resolve picks a concrete version for the expression. Exact versions
// win; otherwise the expression is treated as a semver range and the
// newest satisfying release is chosen.
func (i *Installer) resolve(tool, versionSpec string) (string, error) {
	available := i.releases[tool]
	if len(available) == 0 {
		return "", versionNotFound(tool, versionSpec)
	}

	versions := make(semver.Collection, 0, len(available))
	for _, v := range available {
		parsed, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		versions = append(versions, parsed)
	}
	sort.Sort(sort.Reverse(versions))

	// "go1.22.12" and "1.22.12" mean the same thing.
	expr := strings.TrimPrefix(strings.TrimSpace(versionSpec), tool)

	if expr == "" {
		return versions[0].Original(), nil
	}

	if exact, err := semver.StrictNewVersion(expr); err == nil {
		for _, v := range versions {
			if v.Equal(exact) {
				return v.Original(), nil
			}
		}
		return "", versionNotFound(tool, versionSpec)
	}

	constraint, err := semver.NewConstraint(expr)
	if err != nil {
		return "", versionNotFound(tool, versionSpec)
	}
	for _, v := range versions {
		if constraint.Check(v) {
			return v.Original(), nil
		}
	}
	return "", versionNotFound(tool, versionSpec)
}

// versionNotFound decorates the sentinel while keeping it in the error
// chain, so callers can match it with errors.Is.
func versionNotFound(tool, requested string) error {
	err := zerr.With(zerr.Wrap(domain.ErrVersionNotFound, ""), "tool", tool)
	if requested != "" {
		err = zerr.With(err, "requested", requested)
	}
	return err
}
