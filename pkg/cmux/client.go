// Package cmux drives the cmux terminal multiplexer through its command line
// tool: sidebar status, workspace titles, session lifecycle signals, focus
// identification and notifications.
package cmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/grovetools/cmux-notify/command"
	"github.com/grovetools/cmux-notify/errors"
)

// PreferredPath is where the macOS app bundle installs the CLI.
const PreferredPath = "/Applications/cmux.app/Contents/Resources/bin/cmux"

// BinaryName is looked up on PATH when the preferred path is absent.
const BinaryName = "cmux"

// ResolveBinary returns the cmux executable, checking preferred first and
// then PATH.
func ResolveBinary(preferred string) (string, error) {
	if preferred != "" {
		if info, err := os.Stat(preferred); err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0 {
			return preferred, nil
		}
	}

	path, err := exec.LookPath(BinaryName)
	if err != nil {
		return "", errors.CommandNotFound(BinaryName)
	}
	return path, nil
}

// Client runs cmux subcommands. Every call is bounded by a timeout.
type Client struct {
	builder         *command.SafeBuilder
	path            string
	identifyTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBuilder overrides the command builder, mainly for tests.
func WithBuilder(builder *command.SafeBuilder) Option {
	return func(c *Client) {
		c.builder = builder
	}
}

// WithIdentifyTimeout bounds the identify call separately from the others.
func WithIdentifyTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.identifyTimeout = timeout
	}
}

// NewClient creates a client for the cmux binary at path.
func NewClient(path string, opts ...Option) *Client {
	c := &Client{
		builder:         command.NewSafeBuilder(),
		path:            path,
		identifyTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the resolved cmux executable.
func (c *Client) Path() string {
	return c.path
}

func (c *Client) build(ctx context.Context, args ...string) (*command.Command, error) {
	cmd, err := c.builder.Build(ctx, c.path, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build command: %w", err)
	}
	return cmd, nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd, err := c.build(ctx, args...)
	if err != nil {
		return "", err
	}
	return cmd.Output()
}
