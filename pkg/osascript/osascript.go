// Package osascript talks to macOS through the osascript scripting bridge.
package osascript

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/grovetools/cmux-notify/command"
	"github.com/grovetools/cmux-notify/errors"
	"github.com/grovetools/cmux-notify/notify"
)

// BinaryName is the scripting bridge executable.
const BinaryName = "osascript"

const frontmostScript = `tell application "System Events" to get bundle identifier of first process whose frontmost is true`

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Bridge runs inline AppleScript.
type Bridge struct {
	builder *command.SafeBuilder
	path    string
	timeout time.Duration
}

// Lookup finds osascript on PATH.
func Lookup(builder *command.SafeBuilder, timeout time.Duration) (*Bridge, error) {
	path, err := exec.LookPath(BinaryName)
	if err != nil {
		return nil, errors.CommandNotFound(BinaryName)
	}
	return New(path, builder, timeout), nil
}

// New creates a bridge for the osascript binary at path.
func New(path string, builder *command.SafeBuilder, timeout time.Duration) *Bridge {
	if builder == nil {
		builder = command.NewSafeBuilder()
	}
	return &Bridge{builder: builder, path: path, timeout: timeout}
}

// Path returns the osascript executable.
func (b *Bridge) Path() string {
	return b.path
}

// WithTimeout returns a copy of the bridge bounded by timeout.
func (b *Bridge) WithTimeout(timeout time.Duration) *Bridge {
	clone := *b
	clone.timeout = timeout
	return &clone
}

func (b *Bridge) eval(ctx context.Context, script string) (string, error) {
	cmd, err := b.builder.Build(ctx, b.path, "-e", script)
	if err != nil {
		return "", err
	}
	if b.timeout > 0 {
		cmd = cmd.WithTimeout(b.timeout)
	}
	return cmd.Output()
}

// FrontmostBundleID returns the bundle identifier of the frontmost process.
func (b *Bridge) FrontmostBundleID(ctx context.Context) (string, error) {
	output, err := b.eval(ctx, frontmostScript)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Send implements notify.Sender with `display notification`.
func (b *Bridge) Send(ctx context.Context, n notify.Notification) error {
	_, err := b.eval(ctx, NotificationScript(n))
	return err
}

// NotificationScript builds the AppleScript for a notification.
func NotificationScript(n notify.Notification) string {
	script := "display notification " + Quote(n.Body) + " with title " + Quote(n.Title)
	if n.Subtitle != "" {
		script += " subtitle " + Quote(n.Subtitle)
	}
	return script
}

// Quote renders s as an AppleScript string literal.
func Quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
