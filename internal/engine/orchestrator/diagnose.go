package orchestrator

import (
	"errors"
	"strings"

	"github.com/stackmill/gopack/internal/core/domain"
)

// failureSignature pairs a marker found in captured tool output with a
// user-facing cause. Ordered most specific first; the first match wins.
type failureSignature struct {
	marker  string
	message string
}

var failureSignatures = []failureSignature{
	{
		marker:  "inconsistent vendoring",
		message: "vendor directory is out of sync with go.mod; run 'go mod vendor' and commit the result",
	},
	{
		marker:  "missing go.sum entry",
		message: "go.sum is out of date; run 'go mod tidy' and commit the result",
	},
	{
		marker:  "Gopkg.lock is out of sync",
		message: "Gopkg.lock is out of date; run 'dep ensure' and commit the result",
	},
	{
		marker:  "lock file may be out of date",
		message: "the dependency lock file is out of date; regenerate it with your package manager and commit the result",
	},
	{
		marker:  "cannot find package",
		message: "a dependency is missing from the vendor tree; sync dependencies and commit the result",
	},
}

const genericBuildFailure = "build failed, see the log output above"

// diagnose turns a stage error into the most specific user-facing
// cause available. For tool failures it scans the retained output tail
// against known signatures before falling back to the generic message;
// everything else reports its own error text.
func (o *Orchestrator) diagnose(err error) string {
	if !errors.Is(err, domain.ErrBuildFailed) && !errors.Is(err, domain.ErrDependencySyncFailed) {
		return err.Error()
	}
	tail := o.runner.LastOutput()
	for _, sig := range failureSignatures {
		if strings.Contains(tail, sig.marker) {
			return sig.message
		}
	}
	return genericBuildFailure
}
