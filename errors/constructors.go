package errors

import (
	"fmt"
	"os/exec"
	"time"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *HookError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *HookError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// CommandNotFound reports that an external tool could not be located
func CommandNotFound(name string) *HookError {
	return New(ErrCodeCommandNotFound, fmt.Sprintf("command '%s' not found", name)).
		WithDetail("command", name)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *HookError {
	hookErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		hookErr = hookErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return hookErr
}

// CommandTimeout creates an error for a command killed by its deadline
func CommandTimeout(cmd string, timeout time.Duration) *HookError {
	return New(ErrCodeCommandTimeout,
		fmt.Sprintf("command '%s' did not finish within %s", cmd, timeout)).
		WithDetail("command", cmd).
		WithDetail("timeout", timeout.String())
}

// InvalidPayload wraps a hook payload decoding failure
func InvalidPayload(err error) *HookError {
	return Wrap(err, ErrCodeInvalidPayload, "invalid hook payload")
}

// InvalidResponse reports output from an external tool that could not be understood
func InvalidResponse(cmd string, reason string) *HookError {
	return New(ErrCodeInvalidResponse, fmt.Sprintf("unexpected output from %s: %s", cmd, reason)).
		WithDetail("command", cmd)
}

// StateIO wraps a session state file failure
func StateIO(path string, err error) *HookError {
	return Wrap(err, ErrCodeStateIO, "session state unavailable").
		WithDetail("path", path)
}
