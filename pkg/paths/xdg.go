// Package paths resolves the XDG configuration directory for cmux-notify.
//
// Resolution order:
// 1. CMUX_NOTIFY_HOME (portable root) → $CMUX_NOTIFY_HOME/config
// 2. XDG_CONFIG_HOME → $XDG_CONFIG_HOME/cmux-notify
// 3. Platform default → ~/.config/cmux-notify
package paths

import (
	"os"
	"path/filepath"
)

// AppName is the directory name under the XDG base directory.
const AppName = "cmux-notify"

// EnvHome relocates every cmux-notify directory under one root.
const EnvHome = "CMUX_NOTIFY_HOME"

// ConfigDir returns the cmux-notify configuration directory, or "" when no
// home directory can be determined.
func ConfigDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", AppName)
	}
	return ""
}
