package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/grovetools/cmux-notify/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptions(t *testing.T) {
	cmd := NewStandardCommand("tool", "A tool")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"-v", "--json", "--config", "/tmp/cfg.yml"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, CommandOptions{ConfigFile: "/tmp/cfg.yml", Verbose: true, JSONOutput: true}, GetOptions(cmd))
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five six", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 10, line)
	}
	assert.Equal(t, "short\nlines", wrapText("short\nlines", 10))
}

func TestRenderHelp(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	root := NewStandardCommand("tool <event>", "Routes hook events")
	root.Long = "Routes hook events.\n\nExamples:\n# pipe a payload\necho '{}' | tool sessionEnd"
	root.Flags().Bool("dry-run", false, "Print instead of delivering")
	root.RunE = func(*cobra.Command, []string) error { return nil }
	root.AddCommand(&cobra.Command{Use: "version", Short: "Print the version", Run: func(*cobra.Command, []string) {}})

	var buf bytes.Buffer
	RenderHelp(&buf, root, 80)
	out := buf.String()

	for _, want := range []string{"TOOL", "Routes hook events", "USAGE", "COMMANDS", "version", "FLAGS", "--dry-run", "--config", "EXAMPLES", "# pipe a payload", "echo '{}' | tool sessionEnd"} {
		assert.Contains(t, out, want)
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.ConfigNotFound("/etc/cmux.yml"), "Configuration file not found: /etc/cmux.yml"},
		{"config invalid", errors.ConfigInvalid("mode must be full"), "Invalid configuration"},
		{"invalid input", errors.New(errors.ErrCodeInvalidInput, "unknown subcommand"), "unknown subcommand"},
		{"plain error", fmt.Errorf("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}

			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "Error details")
		})
	}
}

func TestErrorHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}

	h.Handle(errors.ConfigInvalid("bad").WithDetail("path", "/x.yml"))

	assert.Contains(t, buf.String(), "Error details")
	assert.Contains(t, buf.String(), `"path": "/x.yml"`)
}

func TestErrorHandlerNil(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, (&ErrorHandler{Out: &buf}).Handle(nil))
	assert.Empty(t, buf.String())
}
