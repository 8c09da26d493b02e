package app

import (
	"fmt"
	"os"
	"sync"

	"go.trai.ch/zerr"
)

// acquireCredentials materializes the configured git credentials as a
// temporary netrc file and points NETRC at it, so git and the go tool
// can fetch private dependencies. The returned release function
// removes the file and restores the previous NETRC value; it is safe
// to call more than once. Without configured credentials both
// acquisition and release are no-ops.
func (a *App) acquireCredentials() (release func(), err error) {
	if a.cfg.GitCredHost == "" {
		return func() {}, nil
	}

	f, err := os.CreateTemp("", "gopack-netrc-*")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create netrc file")
	}
	path := f.Name()

	entry := fmt.Sprintf("machine %s login %s password %s\n",
		a.cfg.GitCredHost, a.cfg.GitCredUser, a.cfg.GitCredPassword)
	if _, err := f.WriteString(entry); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, zerr.Wrap(err, "failed to write netrc file")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, zerr.Wrap(err, "failed to write netrc file")
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = os.Remove(path)
		return nil, zerr.Wrap(err, "failed to restrict netrc permissions")
	}

	prev, hadPrev := os.LookupEnv("NETRC")
	if err := os.Setenv("NETRC", path); err != nil {
		_ = os.Remove(path)
		return nil, zerr.Wrap(err, "failed to point NETRC at credentials")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if hadPrev {
				_ = os.Setenv("NETRC", prev)
			} else {
				_ = os.Unsetenv("NETRC")
			}
			_ = os.Remove(path)
		})
	}, nil
}
