package cmux

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/grovetools/cmux-notify/errors"
	"github.com/grovetools/cmux-notify/notify"
)

// RenameWorkspace sets the sidebar title of the caller's workspace. Line
// breaks and other control characters are folded into single spaces.
func (c *Client) RenameWorkspace(ctx context.Context, title string) error {
	title = FlattenTitle(title)
	if err := c.builder.Validate("title", title); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid workspace title")
	}
	_, err := c.run(ctx, "rename-workspace", title)
	return err
}

// FlattenTitle turns title into a single line with runs of whitespace and
// control characters collapsed to one space.
func FlattenTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, title)
	return strings.Join(strings.Fields(title), " ")
}

// SetStatus writes a sidebar status entry. An empty message is allowed and
// blanks the entry.
func (c *Client) SetStatus(ctx context.Context, status Status) error {
	if err := c.builder.Validate("statusChannel", string(status.Channel)); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid status")
	}

	args := []string{"set-status", string(status.Channel), status.Message}
	if status.Color != "" {
		if err := c.builder.Validate("color", status.Color); err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid status")
		}
		args = append(args, "--color", status.Color)
	}
	if status.Icon != "" {
		if err := c.builder.Validate("icon", status.Icon); err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid status")
		}
		args = append(args, "--icon", status.Icon)
	}

	_, err := c.run(ctx, args...)
	return err
}

// ClearStatus removes a sidebar status entry.
func (c *Client) ClearStatus(ctx context.Context, channel StatusChannel) error {
	if err := c.builder.Validate("statusChannel", string(channel)); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid status channel")
	}
	_, err := c.run(ctx, "clear-status", string(channel))
	return err
}

// SignalHook forwards a lifecycle signal, feeding an empty JSON object on
// stdin as the hook protocol expects.
func (c *Client) SignalHook(ctx context.Context, phase HookPhase) error {
	cmd, err := c.build(ctx, "claude-hook", string(phase))
	if err != nil {
		return err
	}
	return cmd.WithStdin("{}").Run()
}

// Identify asks cmux which surface is focused and which one is calling.
func (c *Client) Identify(ctx context.Context) (*Identity, error) {
	cmd, err := c.build(ctx, "identify", "--json")
	if err != nil {
		return nil, err
	}

	output, err := cmd.WithTimeout(c.identifyTimeout).Output()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(output) == "" {
		return nil, errors.InvalidResponse("cmux identify", "empty output")
	}

	var identity Identity
	if err := json.Unmarshal([]byte(output), &identity); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidResponse, "failed to parse cmux identify output")
	}
	return &identity, nil
}

// Send implements notify.Sender with `cmux notify`.
func (c *Client) Send(ctx context.Context, n notify.Notification) error {
	args := []string{"notify", "--title", n.Title}
	if n.Subtitle != "" {
		args = append(args, "--subtitle", n.Subtitle)
	}
	if n.Body != "" {
		args = append(args, "--body", n.Body)
	}
	_, err := c.run(ctx, args...)
	return err
}
