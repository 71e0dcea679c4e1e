package hook

import (
	"io"
	"os"

	"github.com/grovetools/cmux-notify/command"
	"github.com/grovetools/cmux-notify/config"
	"github.com/grovetools/cmux-notify/focus"
	"github.com/grovetools/cmux-notify/logging"
	"github.com/grovetools/cmux-notify/notify"
	"github.com/grovetools/cmux-notify/payload"
	"github.com/grovetools/cmux-notify/pkg/cmux"
	"github.com/grovetools/cmux-notify/pkg/osascript"
	"github.com/grovetools/cmux-notify/policy"
	"github.com/grovetools/cmux-notify/state"
)

// Settings assemble a Runner.
type Settings struct {
	Config *config.Config
	Env    config.Environment
	DryRun bool
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner resolves the external tools and wires the policy. Missing tools
// are not errors: without cmux the sidebar is skipped and notifications go
// through osascript, without either nothing is shown.
func NewRunner(s Settings) *Runner {
	cfg := s.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := logging.NewLogger("hook")

	commandTimeout := cfg.CommandTimeoutDuration()
	focusTimeout := cfg.FocusTimeoutDuration()
	builder := command.NewSafeBuilder().WithDefaultTimeout(commandTimeout)

	var (
		client     *cmux.Client
		sidebar    policy.Sidebar
		primary    notify.Sender
		identifier focus.Identifier
	)
	if path, err := cmux.ResolveBinary(cfg.CmuxPath); err == nil {
		client = cmux.NewClient(path, cmux.WithBuilder(builder), cmux.WithIdentifyTimeout(focusTimeout))
		sidebar, primary, identifier = client, client, client
		log.WithField("path", path).Debug("Using cmux")
	} else {
		log.WithError(err).Debug("cmux unavailable")
	}

	var (
		frontmost focus.FrontmostQuerier
		fallback  notify.Sender
	)
	if bridge, err := osascript.Lookup(builder, commandTimeout); err == nil {
		frontmost = bridge.WithTimeout(focusTimeout)
		fallback = bridge
	} else {
		log.WithError(err).Debug("osascript unavailable")
	}

	var store state.Store = state.NewFileStore(cfg.StateDir, cfg.StatePrefix, s.Env.WorkspaceRef, logging.NewLogger("state"))
	if s.DryRun {
		if sidebar != nil {
			sidebar = NewDryRunSidebar(logging.NewLogger("dry-run"))
		}
		store = state.NewMemoryStore()
	}

	oracle := focus.NewOracle(frontmost, identifier, cfg.ResolveBundleID(s.Env), logging.NewLogger("focus"))

	p := policy.New(policy.Options{
		Mode:             policy.Mode(cfg.Mode),
		DisplayName:      cfg.DisplayName,
		AssistantName:    cfg.AssistantName,
		InteractiveTools: cfg.InteractiveTools,
		IntentTool:       cfg.IntentTool,
	}, sidebar, oracle, store, logging.NewLogger("policy"))

	stdout, stderr := s.Stdout, s.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Runner{
		Policy:   p,
		Delivery: notify.NewDeliverer(primary, fallback, logging.NewLogger("notify")),
		Env:      payload.Env{PWD: s.Env.PWD, Getwd: os.Getwd},
		DryRun:   s.DryRun,
		Stdout:   stdout,
		Stderr:   stderr,
		log:      log,
	}
}
