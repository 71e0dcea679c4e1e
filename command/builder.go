package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/cmux-notify/errors"
)

const (
	// DefaultTimeout is the default command execution timeout
	DefaultTimeout = 3 * time.Second

	// MaxTimeout is the maximum allowed timeout
	MaxTimeout = 30 * time.Second

	// waitDelay bounds how long output pipes held open by orphaned children
	// may delay a killed command.
	waitDelay = 250 * time.Millisecond
)

var (
	statusChannelPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	hexColorPattern      = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	iconPattern          = regexp.MustCompile(`^[a-z0-9]+(\.[a-z0-9]+)*$`)
)

// SafeBuilder provides bounded command execution with argument validation
type SafeBuilder struct {
	defaultTimeout time.Duration
	validators     map[string]func(string) error
	executor       Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		defaultTimeout: DefaultTimeout,
		validators:     makeDefaultValidators(),
		executor:       exec,
	}
}

// WithDefaultTimeout changes the timeout applied to commands built afterwards
func (sb *SafeBuilder) WithDefaultTimeout(timeout time.Duration) *SafeBuilder {
	if timeout > 0 {
		sb.defaultTimeout = clampTimeout(timeout)
	}
	return sb
}

// makeDefaultValidators returns the default set of validators
func makeDefaultValidators() map[string]func(string) error {
	return map[string]func(string) error{
		"statusChannel": validateStatusChannel,
		"color":         validateColor,
		"icon":          validateIcon,
		"title":         validateTitle,
	}
}

// validateStatusChannel ensures sidebar status keys are simple identifiers
func validateStatusChannel(name string) error {
	if name == "" {
		return fmt.Errorf("status channel cannot be empty")
	}
	if !statusChannelPattern.MatchString(name) {
		return fmt.Errorf("invalid status channel: %s", name)
	}
	return nil
}

// validateColor accepts #rrggbb colors
func validateColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid color: %s (expected #rrggbb)", color)
	}
	return nil
}

// validateIcon accepts SF Symbol style names such as bell.fill
func validateIcon(icon string) error {
	if !iconPattern.MatchString(icon) {
		return fmt.Errorf("invalid icon name: %s", icon)
	}
	return nil
}

// validateTitle requires a title with visible text
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}

// Command represents a bounded command configuration
type Command struct {
	ctx      context.Context
	name     string
	args     []string
	stdin    string
	timeout  time.Duration
	executor Executor
}

// Build creates a new command with validation
func (sb *SafeBuilder) Build(ctx context.Context, name string, args ...string) (*Command, error) {
	if name == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}

	return &Command{
		ctx:      ctx,
		name:     name,
		args:     args,
		timeout:  sb.defaultTimeout,
		executor: sb.executor,
	}, nil
}

// WithTimeout sets a custom timeout for the command
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	c.timeout = clampTimeout(timeout)
	return c
}

// WithStdin feeds the given text to the command's standard input
func (c *Command) WithStdin(input string) *Command {
	c.stdin = input
	return c
}

// String renders the command line for logs and errors
func (c *Command) String() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// Validate validates specific arguments
func (sb *SafeBuilder) Validate(argType string, value string) error {
	validator, exists := sb.validators[argType]
	if !exists {
		return fmt.Errorf("no validator for argument type: %s", argType)
	}

	return validator(value)
}

// Output runs the command to completion under its timeout and returns stdout.
// A non-zero exit, a start failure and a deadline are all reported as coded errors.
func (c *Command) Output() (string, error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	execCmd := c.executor.CommandContext(ctx, c.name, c.args...) //nolint:gosec // arguments are validated by callers
	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr
	execCmd.WaitDelay = waitDelay
	if c.stdin != "" {
		execCmd.Stdin = strings.NewReader(c.stdin)
	}

	err := execCmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), errors.CommandTimeout(c.String(), c.timeout)
	}
	if err != nil {
		var execErr *exec.Error
		if stderrors.As(err, &execErr) {
			return "", errors.CommandNotFound(execErr.Name)
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.CommandNotFound(c.name)
		}
		return stdout.String(), errors.CommandFailed(c.String(), err).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// Run runs the command and discards its output
func (c *Command) Run() error {
	_, err := c.Output()
	return err
}

func clampTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}
