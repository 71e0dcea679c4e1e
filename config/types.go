package config

import (
	"fmt"
	"time"

	"github.com/grovetools/cmux-notify/logging"
	"github.com/mitchellh/mapstructure"
)

// Defaults applied by SetDefaults.
const (
	ModeFull    = "full"
	ModeMinimal = "minimal"

	DefaultDisplayName    = "Copilot CLI"
	DefaultAssistantName  = "Copilot"
	DefaultCmuxPath       = "/Applications/cmux.app/Contents/Resources/bin/cmux"
	DefaultBundleID       = "com.cmuxterm.app"
	DefaultStatePrefix    = "cmux-copilot-"
	DefaultCommandTimeout = "3s"
	DefaultFocusTimeout   = "2s"
	DefaultIntentTool     = "report_intent"
)

// DefaultInteractiveTools are the tools that always wait on the user.
var DefaultInteractiveTools = []string{"ask_user", "exit_plan_mode"}

// Config is the cmux-notify configuration file.
type Config struct {
	Mode             string   `yaml:"mode,omitempty"`
	DisplayName      string   `yaml:"display_name,omitempty"`
	AssistantName    string   `yaml:"assistant_name,omitempty"`
	CmuxPath         string   `yaml:"cmux_path,omitempty"`
	BundleID         string   `yaml:"bundle_id,omitempty"`
	StateDir         string   `yaml:"state_dir,omitempty"`
	StatePrefix      string   `yaml:"state_prefix,omitempty"`
	CommandTimeout   string   `yaml:"command_timeout,omitempty"`
	FocusTimeout     string   `yaml:"focus_timeout,omitempty"`
	InteractiveTools []string `yaml:"interactive_tools,omitempty"`
	IntentTool       string   `yaml:"intent_tool,omitempty"`

	// Extensions holds every other top-level section, such as `logging`.
	Extensions map[string]interface{} `yaml:",inline"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeFull
	}
	if c.DisplayName == "" {
		c.DisplayName = DefaultDisplayName
	}
	if c.AssistantName == "" {
		c.AssistantName = DefaultAssistantName
	}
	if c.CmuxPath == "" {
		c.CmuxPath = DefaultCmuxPath
	}
	if c.BundleID == "" {
		c.BundleID = DefaultBundleID
	}
	if c.StatePrefix == "" {
		c.StatePrefix = DefaultStatePrefix
	}
	if c.CommandTimeout == "" {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.FocusTimeout == "" {
		c.FocusTimeout = DefaultFocusTimeout
	}
	if len(c.InteractiveTools) == 0 {
		c.InteractiveTools = append([]string(nil), DefaultInteractiveTools...)
	}
	if c.IntentTool == "" {
		c.IntentTool = DefaultIntentTool
	}
}

// CommandTimeoutDuration is the bound on every cmux and osascript call.
func (c *Config) CommandTimeoutDuration() time.Duration {
	return durationOr(c.CommandTimeout, DefaultCommandTimeout)
}

// FocusTimeoutDuration is the bound on the focus checks.
func (c *Config) FocusTimeoutDuration() time.Duration {
	return durationOr(c.FocusTimeout, DefaultFocusTimeout)
}

func durationOr(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// UnmarshalExtension decodes a top-level extension section into target.
// A missing section leaves target untouched.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// Logging decodes the `logging` section.
func (c *Config) Logging() (logging.Config, error) {
	var cfg logging.Config
	err := c.UnmarshalExtension("logging", &cfg)
	return cfg, err
}
