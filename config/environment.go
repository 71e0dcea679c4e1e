package config

import (
	"os"
	"strings"
)

// Environment variables set by the multiplexer for processes it hosts.
const (
	EnvWorkspaceID  = "CMUX_WORKSPACE_ID"
	EnvWorkspaceRef = "CMUX_WORKSPACE_REF"
	EnvBundleID     = "CMUX_BUNDLE_ID"
)

// Environment is every process-environment fact the hook consumes, read once
// at startup.
type Environment struct {
	// WorkspaceRef identifies the multiplexer workspace; empty outside cmux.
	WorkspaceRef string
	// BundleID overrides the configured bundle identifier when set.
	BundleID string
	// PWD is the shell's working directory.
	PWD string
}

// EnvironmentFrom reads the environment through getenv.
func EnvironmentFrom(getenv func(string) string) Environment {
	ref := strings.TrimSpace(getenv(EnvWorkspaceID))
	if ref == "" {
		ref = strings.TrimSpace(getenv(EnvWorkspaceRef))
	}
	return Environment{
		WorkspaceRef: ref,
		BundleID:     strings.TrimSpace(getenv(EnvBundleID)),
		PWD:          getenv("PWD"),
	}
}

// ProcessEnvironment reads the running process's environment.
func ProcessEnvironment() Environment {
	return EnvironmentFrom(os.Getenv)
}

// ResolveBundleID applies the environment override to the configured value.
func (c *Config) ResolveBundleID(env Environment) string {
	if env.BundleID != "" {
		return env.BundleID
	}
	if c.BundleID != "" {
		return c.BundleID
	}
	return DefaultBundleID
}
