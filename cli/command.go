package cli

import (
	"github.com/grovetools/cmux-notify/config"
	"github.com/grovetools/cmux-notify/logging"
	"github.com/spf13/cobra"
)

// CommandOptions holds the standard flags shared by every command.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a command carrying the standard flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: $"+config.EnvConfigPath+" or the XDG config dir)")

	SetStyledHelp(cmd)

	return cmd
}

// GetOptions extracts the standard flags from a command.
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the config file selected by the standard flags. On error
// the defaults are still returned alongside it.
func LoadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	return config.LoadDefault(GetOptions(cmd).ConfigFile)
}

// ConfigureLogging applies the `logging` section and the standard flags to
// every component logger. An undecodable section is ignored.
func ConfigureLogging(cmd *cobra.Command, cfg *config.Config) {
	opts := GetOptions(cmd)
	logCfg, err := cfg.Logging()
	logging.Configure(logCfg, logging.Overrides{
		Verbose: opts.Verbose,
		JSON:    opts.JSONOutput,
	})
	if err != nil {
		logging.NewLogger("cli").WithError(err).Warn("Ignoring logging configuration")
	}
}
