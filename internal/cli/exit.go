package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/skgd-labs/skgd/internal/prompt"
)

// usageError marks bad invocations (exit code 2).
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode returns the process exit code for an error returned by Execute.
// Returns 0 if err is nil or the user cancelled, 2 for usage errors, and 1
// for everything else.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, prompt.ErrCancelled) {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) || isCobraUsage(err) {
		return 2
	}
	return 1
}

// PrintError writes err to w unless it needs no report.
func PrintError(w io.Writer, err error) {
	if ExitCode(err) == 0 {
		return
	}
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

// isCobraUsage recognizes the argument errors cobra builds with
// fmt.Errorf and therefore cannot be matched by type.
func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "accepts ", "requires at least", "requires at most", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
