package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// FakeOptions controls what a fake executable does when invoked.
type FakeOptions struct {
	// Stdout is printed verbatim on every call.
	Stdout string
	// ExitCode is returned on every call.
	ExitCode int
	// Sleep delays the exit, in seconds, to exercise timeouts.
	Sleep float64
}

// FakeBinary is a shell script standing in for an external tool. It records
// the argv and stdin of every invocation.
type FakeBinary struct {
	Path     string
	argsLog  string
	stdinLog string
}

// RequireShell skips the test on platforms without /bin/sh.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries need /bin/sh")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// NewFakeBinary writes an executable named name into dir.
func NewFakeBinary(t *testing.T, dir, name string, opts FakeOptions) *FakeBinary {
	t.Helper()
	RequireShell(t)

	fake := &FakeBinary{
		Path:     filepath.Join(dir, name),
		argsLog:  filepath.Join(dir, name+".args"),
		stdinLog: filepath.Join(dir, name+".stdin"),
	}

	// Tools are resolved now so the script keeps working when a test narrows PATH.
	catPath := lookPath(t, "cat")
	sleepPath := lookPath(t, "sleep")

	stdoutFile := filepath.Join(dir, name+".stdout")
	require.NoError(t, os.WriteFile(stdoutFile, []byte(opts.Stdout), 0600))

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&script, "for a in \"$@\"; do printf '%%s\\037' \"$a\" >> '%s'; done\n", fake.argsLog)
	fmt.Fprintf(&script, "printf '\\n' >> '%s'\n", fake.argsLog)
	fmt.Fprintf(&script, "'%s' >> '%s'\n", catPath, fake.stdinLog)
	fmt.Fprintf(&script, "'%s' '%s'\n", catPath, stdoutFile)
	if opts.Sleep > 0 {
		fmt.Fprintf(&script, "exec '%s' %g\n", sleepPath, opts.Sleep)
	}
	fmt.Fprintf(&script, "exit %d\n", opts.ExitCode)

	require.NoError(t, os.WriteFile(fake.Path, []byte(script.String()), 0755))
	return fake
}

func lookPath(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available", name)
	}
	return path
}

// Calls returns the argv (without the program name) of every invocation so far.
func (f *FakeBinary) Calls(t *testing.T) [][]string {
	t.Helper()

	data, err := os.ReadFile(f.argsLog)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var calls [][]string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		args := strings.Split(line, "\x1f")
		calls = append(calls, args[:len(args)-1])
	}
	return calls
}

// Stdin returns everything written to the fake's stdin across invocations.
func (f *FakeBinary) Stdin(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(f.stdinLog)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}
