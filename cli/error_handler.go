package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/cmux-notify/errors"
)

// ErrorHandler prints user-friendly messages for errors returned by the
// non-hook subcommands.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	hookErr, _ := err.(*errors.HookError)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprint(h.Out, "❌ Configuration file not found")
		if hookErr != nil && hookErr.Details["path"] != nil {
			fmt.Fprintf(h.Out, ": %v", hookErr.Details["path"])
		}
		fmt.Fprintln(h.Out)
		fmt.Fprintln(h.Out, "Run 'cmux-notify config path' to see where configuration is read from.")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "❌ Invalid configuration: %v\n", err)
		fmt.Fprintln(h.Out, "Run 'cmux-notify config schema' to see the accepted settings.")

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(h.Out, "❌ %v\n", err)

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	if h.Verbose && hookErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", hookErr.ToJSON())
	}
	return err
}
