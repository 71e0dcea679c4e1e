package cmd

import (
	"github.com/grovetools/cmux-notify/cli"
	"github.com/grovetools/cmux-notify/config"
	"github.com/grovetools/cmux-notify/hook"
	"github.com/grovetools/cmux-notify/logging"
	"github.com/grovetools/cmux-notify/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loaded is the configuration resolved once per process by the root
// command's pre-run.
type loaded struct {
	cfg  *config.Config
	path string
	err  error
}

// NewRootCmd builds the cmux-notify command tree.
func NewRootCmd() *cobra.Command {
	state := &loaded{cfg: config.Default()}

	cmd := cli.NewStandardCommand(
		"cmux-notify <event>",
		"Route coding-assistant hook events to the cmux sidebar and desktop notifications",
	)
	cmd.Long = `Reads one hook payload as JSON on stdin and handles the named event:
sessionStart, preToolUse, postToolUse or sessionEnd. Any other event is
ignored. The hook always exits 0; problems are logged to stderr.

Examples:
# register as a Copilot CLI hook
cmux-notify preToolUse
# preview what a payload would produce
echo '{"toolName":"ask_user","toolArgs":{"question":"Which branch?"}}' | cmux-notify preToolUse --dry-run`
	// The hook never fails its caller: extra arguments and unknown flags
	// are ignored and the first argument names the event.
	cmd.Args = cobra.ArbitraryArgs
	cmd.FParseErrWhitelist.UnknownFlags = true
	cmd.Flags().AddFlagSet(hookFlags())

	cli.SetVersionTemplate(cmd, version.GetInfo())

	cmd.PersistentPreRun = func(c *cobra.Command, _ []string) {
		state.cfg, state.path, state.err = cli.LoadConfig(c)
		cli.ConfigureLogging(c, state.cfg)
	}

	cmd.RunE = func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return c.Help()
		}
		runHook(c, state, args[0])
		return nil
	}

	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewConfigCmd(state))

	return cmd
}

func hookFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("hook", pflag.ContinueOnError)
	fs.Bool("minimal", false, "Only notify for ask_user questions and session ends")
	fs.Bool("dry-run", false, "Print the notification as JSON instead of delivering it")
	return fs
}

func runHook(c *cobra.Command, state *loaded, event string) {
	log := logging.NewLogger("cmux-notify")
	if state.err != nil {
		log.WithError(state.err).WithField("path", state.path).Warn("Ignoring unusable configuration, using defaults")
	}

	cfg := *state.cfg
	if minimal, _ := c.Flags().GetBool("minimal"); minimal {
		cfg.Mode = config.ModeMinimal
	}
	dryRun, _ := c.Flags().GetBool("dry-run")

	runner := hook.NewRunner(hook.Settings{
		Config: &cfg,
		Env:    config.ProcessEnvironment(),
		DryRun: dryRun,
		Stdout: c.OutOrStdout(),
		Stderr: c.ErrOrStderr(),
	})
	runner.Run(c.Context(), event, c.InOrStdin())
}
