package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/tidyup/pkg/output"
	"github.com/arthur-debert/tidyup/pkg/style"
)

// Process exit codes
const (
	ExitOK         = 0
	ExitFailure    = 1 // Configuration or setup failure
	ExitRuleErrors = 2 // The run completed but at least one rule failed
)

// ExitError carries the exit code a command wants. Silent errors have
// already been reported on stdout.
type ExitError struct {
	Code   int
	Err    error
	Silent bool
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an Execute error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// PrintError reports err on w unless it is silent
func PrintError(w io.Writer, err error) {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) && exitErr.Silent {
		return
	}
	r, rerr := output.NewRenderer(w, !style.ColorEnabled(os.Stderr))
	if rerr != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if rerr := r.Error(err); rerr != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
