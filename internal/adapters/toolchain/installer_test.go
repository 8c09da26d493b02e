package toolchain_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackmill/gopack/internal/adapters/logger"
	"github.com/stackmill/gopack/internal/adapters/toolchain"
	"github.com/stackmill/gopack/internal/core/domain"
)

// releaseTarball builds an in-memory tar.gz with a single bin/ file.
func releaseTarball(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     0o755,
		Size:     int64(len(content)),
	}))
	_, err := tw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func distServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInstall_ExactVersion(t *testing.T) {
	srv := distServer(t, releaseTarball(t, "bin/go", "toolchain"))
	dest := t.TempDir()

	inst := toolchain.NewInstaller(logger.New()).WithDistURL(srv.URL)
	version, err := inst.Install(context.Background(), "go", "go1.22.12", dest)
	require.NoError(t, err)
	assert.Equal(t, "1.22.12", version)

	data, err := os.ReadFile(filepath.Join(dest, "bin", "go"))
	require.NoError(t, err)
	assert.Equal(t, "toolchain", string(data))
}

func TestInstall_RangeResolvesNewest(t *testing.T) {
	srv := distServer(t, releaseTarball(t, "bin/go", "toolchain"))

	inst := toolchain.NewInstaller(logger.New()).WithDistURL(srv.URL)
	version, err := inst.Install(context.Background(), "go", "1.22.x", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "1.22.12", version)
}

func TestInstall_EmptySpecIsLatest(t *testing.T) {
	srv := distServer(t, releaseTarball(t, "bin/dep", "toolchain"))

	inst := toolchain.NewInstaller(logger.New()).WithDistURL(srv.URL)
	version, err := inst.Install(context.Background(), "dep", "", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "0.5.4", version)
}

func TestInstall_VersionNotFound(t *testing.T) {
	inst := toolchain.NewInstaller(logger.New())

	_, err := inst.Install(context.Background(), "go", "go9.99.9", t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrVersionNotFound))
}

func TestInstall_UnknownTool(t *testing.T) {
	inst := toolchain.NewInstaller(logger.New())

	_, err := inst.Install(context.Background(), "gradle", "", t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrVersionNotFound))
}

func TestInstall_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	inst := toolchain.NewInstaller(logger.New()).WithDistURL(srv.URL)
	_, err := inst.Install(context.Background(), "go", "go1.22.12", t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrInstallFailed))
}

func TestInstall_RejectsEscapingArchive(t *testing.T) {
	srv := distServer(t, releaseTarball(t, "../escape", "nope"))

	inst := toolchain.NewInstaller(logger.New()).WithDistURL(srv.URL)
	_, err := inst.Install(context.Background(), "go", "go1.22.12", t.TempDir())
	assert.Error(t, err)
}
