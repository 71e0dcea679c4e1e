package command

import (
	"context"
	"os/exec"
)

// Executor creates the exec.Cmd for an external tool invocation. Tests swap
// it to observe or redirect what cmux and osascript calls would run.
type Executor interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor runs tools through os/exec.
type RealExecutor struct{}

// CommandContext returns a command that is killed when ctx is done.
func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// CommandContext calls f.
func (f ExecutorFunc) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return f(ctx, name, args...)
}
