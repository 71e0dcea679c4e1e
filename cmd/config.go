package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/cmux-notify/cli"
	"github.com/grovetools/cmux-notify/config"
	"github.com/grovetools/cmux-notify/pkg/paths"
	"github.com/grovetools/cmux-notify/state"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd groups the configuration inspection commands.
func NewConfigCmd(current *loaded) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the cmux-notify configuration",
	}

	cmd.AddCommand(newConfigShowCmd(current))
	cmd.AddCommand(newConfigSchemaCmd())
	cmd.AddCommand(newConfigPathCmd(current))
	return cmd
}

func newConfigShowCmd(current *loaded) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if current.err != nil {
				return current.err
			}

			data, err := yaml.Marshal(current.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				var generic map[string]interface{}
				if err := yaml.Unmarshal(data, &generic); err != nil {
					return fmt.Errorf("failed to convert config: %w", err)
				}
				jsonData, err := json.MarshalIndent(generic, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
				return nil
			}

			source := current.path
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# Source: %s\n%s", source, data)
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.GenerateSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return nil
		},
	}
}

// PathsOutput lists where cmux-notify reads and writes files.
type PathsOutput struct {
	ConfigDir  string `json:"config_dir"`
	ConfigFile string `json:"config_file,omitempty"`
	StateFile  string `json:"state_file,omitempty"`
}

func newConfigPathCmd(current *loaded) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config directory, config file and state file in use",
		Long: `Print the paths used by cmux-notify as JSON.

- config_dir: directory searched for config.yml, config.yaml or config.toml
- config_file: the config file in use, if any
- state_file: the session state file for the current cmux workspace, if any`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.ProcessEnvironment()
			output := PathsOutput{
				ConfigDir:  paths.ConfigDir(),
				ConfigFile: current.path,
				StateFile:  state.FilePath(current.cfg.StateDir, current.cfg.StatePrefix, env.WorkspaceRef),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
}
