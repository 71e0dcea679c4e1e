package config

import (
	"encoding/json"

	"github.com/grovetools/cmux-notify/logging"
	"github.com/invopop/jsonschema"
)

// GenerateSchema returns the JSON Schema for the config file. Only the
// `logging` extension is known, so any other top-level key is rejected.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
	}

	// Mirrors Config with the inline Extensions replaced by the known sections.
	type FileConfig struct {
		Mode             string          `yaml:"mode,omitempty" jsonschema:"enum=full,enum=minimal,description=full drives the sidebar; minimal only notifies"`
		DisplayName      string          `yaml:"display_name,omitempty" jsonschema:"description=Notification title,minLength=1"`
		AssistantName    string          `yaml:"assistant_name,omitempty" jsonschema:"description=Name used in fallback notification bodies"`
		CmuxPath         string          `yaml:"cmux_path,omitempty" jsonschema:"description=Preferred cmux executable; PATH is searched otherwise"`
		BundleID         string          `yaml:"bundle_id,omitempty" jsonschema:"description=Bundle identifier of the terminal app; CMUX_BUNDLE_ID overrides"`
		StateDir         string          `yaml:"state_dir,omitempty" jsonschema:"description=Directory for per-workspace state files (default: system temp)"`
		StatePrefix      string          `yaml:"state_prefix,omitempty" jsonschema:"description=File name prefix for state files"`
		CommandTimeout   string          `yaml:"command_timeout,omitempty" jsonschema:"description=Bound on every subprocess (Go duration)"`
		FocusTimeout     string          `yaml:"focus_timeout,omitempty" jsonschema:"description=Bound on the focus checks (Go duration)"`
		InteractiveTools []string        `yaml:"interactive_tools,omitempty" jsonschema:"description=Tools that always wait on the user"`
		IntentTool       string          `yaml:"intent_tool,omitempty" jsonschema:"description=Tool whose intent argument is shown in the sidebar"`
		Logging          *logging.Config `yaml:"logging,omitempty" jsonschema:"description=Diagnostic logging"`
	}

	schema := r.Reflect(&FileConfig{})
	schema.Title = "cmux-notify Configuration"
	schema.Description = "Configuration for the cmux-notify hook."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
