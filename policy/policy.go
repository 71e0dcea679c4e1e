// Package policy maps a hook event onto sidebar updates and at most one
// desktop notification.
package policy

import (
	"context"
	"fmt"

	"github.com/grovetools/cmux-notify/notify"
	"github.com/grovetools/cmux-notify/payload"
	"github.com/grovetools/cmux-notify/pkg/cmux"
	"github.com/grovetools/cmux-notify/state"
	"github.com/sirupsen/logrus"
)

// Hook event names passed on the command line.
const (
	EventSessionStart = "sessionStart"
	EventPreToolUse   = "preToolUse"
	EventPostToolUse  = "postToolUse"
	EventSessionEnd   = "sessionEnd"
)

// Mode selects how much the policy does.
type Mode string

const (
	// ModeFull drives the sidebar, session state and notifications.
	ModeFull Mode = "full"
	// ModeMinimal only raises notifications for questions and session ends.
	ModeMinimal Mode = "minimal"
)

// Sidebar is the subset of the cmux client the policy drives.
type Sidebar interface {
	RenameWorkspace(ctx context.Context, title string) error
	SetStatus(ctx context.Context, status cmux.Status) error
	ClearStatus(ctx context.Context, channel cmux.StatusChannel) error
	SignalHook(ctx context.Context, phase cmux.HookPhase) error
}

// FocusOracle reports whether the user is already looking at the caller.
type FocusOracle interface {
	IsActive(ctx context.Context) bool
}

// Options are the user-tunable parts of the policy.
type Options struct {
	Mode             Mode
	DisplayName      string
	AssistantName    string
	InteractiveTools []string
	IntentTool       string
}

// DefaultOptions matches the Copilot CLI hook contract.
func DefaultOptions() Options {
	return Options{
		Mode:             ModeFull,
		DisplayName:      "Copilot CLI",
		AssistantName:    "Copilot",
		InteractiveTools: []string{AskUserTool, PlanExitTool},
		IntentTool:       "report_intent",
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Mode == "" {
		o.Mode = defaults.Mode
	}
	if o.DisplayName == "" {
		o.DisplayName = defaults.DisplayName
	}
	if o.AssistantName == "" {
		o.AssistantName = defaults.AssistantName
	}
	if o.InteractiveTools == nil {
		o.InteractiveTools = defaults.InteractiveTools
	}
	if o.IntentTool == "" {
		o.IntentTool = defaults.IntentTool
	}
	return o
}

// Policy evaluates one event at a time. It holds no state of its own; cross
// invocation memory lives in the Store.
type Policy struct {
	opts    Options
	sidebar Sidebar
	focus   FocusOracle
	store   state.Store
	log     *logrus.Entry
}

// New creates a Policy. A nil sidebar means cmux is unavailable: sidebar and
// session state handling are skipped but notifications are still decided.
func New(opts Options, sidebar Sidebar, focus FocusOracle, store state.Store, log *logrus.Entry) *Policy {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if store == nil {
		store = state.NewMemoryStore()
	}
	opts = opts.withDefaults()
	return &Policy{
		opts:    opts,
		sidebar: sidebar,
		focus:   focus,
		store:   store,
		log:     log,
	}
}

// Evaluate applies the side effects for event and returns the notification
// to show, if any.
func (p *Policy) Evaluate(ctx context.Context, event string, ec payload.Context) *notify.Notification {
	log := p.log.WithFields(logrus.Fields{"event": event, "tool": ec.ToolName})

	if p.opts.Mode == ModeMinimal {
		return p.evaluateMinimal(ctx, event, ec)
	}

	switch event {
	case EventPreToolUse, EventPostToolUse:
		return p.onToolUse(ctx, ec)
	case EventSessionStart:
		p.onSessionStart(ctx, ec)
		return nil
	case EventSessionEnd:
		p.onSessionEnd(ctx, ec)
		return p.sessionEndNotification(ctx, ec, ec.Subtitle())
	default:
		log.Debug("Ignoring unrecognized event")
		return nil
	}
}

func (p *Policy) evaluateMinimal(ctx context.Context, event string, ec payload.Context) *notify.Notification {
	switch event {
	case EventPreToolUse, EventPostToolUse:
		if ec.ToolName != AskUserTool || p.userIsWatching(ctx) {
			return nil
		}
		return &notify.Notification{
			Title:    p.opts.DisplayName,
			Subtitle: LabelNeedsAnswer,
			Body:     InteractionBody(AskUserTool, ec.ToolArgs, p.opts.AssistantName),
		}
	case EventSessionEnd:
		return p.sessionEndNotification(ctx, ec, "")
	default:
		return nil
	}
}

func (p *Policy) onToolUse(ctx context.Context, ec payload.Context) *notify.Notification {
	interactive := p.IsInteractive(ec.ToolName, ec.ToolArgs)

	if ec.ToolName == p.opts.IntentTool {
		p.onReportIntent(ctx, ec)
	} else if !interactive {
		// Routine tool activity means the user already answered.
		p.clearStatus(ctx, cmux.ChannelAttention)
	}

	if !interactive {
		return nil
	}

	label := InteractionLabel(ec.ToolName)
	p.setStatus(ctx, cmux.AttentionStatus(label))

	if p.userIsWatching(ctx) {
		return nil
	}

	subtitle := ec.Subtitle()
	if subtitle == "" {
		subtitle = label
	}
	return &notify.Notification{
		Title:    p.opts.DisplayName,
		Subtitle: subtitle,
		Body:     InteractionBody(ec.ToolName, ec.ToolArgs, p.opts.AssistantName),
	}
}

func (p *Policy) onReportIntent(ctx context.Context, ec payload.Context) {
	if p.sidebar == nil {
		return
	}

	intent := ec.ToolArgs.String("intent")
	if intent == "" {
		return
	}

	session := p.store.Load()
	if !session.Started {
		p.markRunning(ctx)
		session.Started = true
	}

	if title := ec.WorkspaceTitle(); title != "" && title != session.Title {
		p.renameWorkspace(ctx, title)
		session.Title = title
	}

	p.clearStatus(ctx, cmux.ChannelAttention)
	p.store.Save(session)
	p.setStatus(ctx, cmux.IntentStatus(intent))
}

func (p *Policy) onSessionStart(ctx context.Context, ec payload.Context) {
	if p.sidebar == nil {
		return
	}

	p.store.Remove()
	p.clearStatus(ctx, cmux.ChannelAttention)
	p.setStatus(ctx, cmux.IntentStatus(""))
	p.markRunning(ctx)

	session := state.Session{Started: true}
	if title := ec.WorkspaceTitle(); title != "" {
		p.renameWorkspace(ctx, title)
		session.Title = title
	}
	p.store.Save(session)
}

func (p *Policy) onSessionEnd(ctx context.Context, ec payload.Context) {
	if p.sidebar == nil {
		return
	}

	p.setStatus(ctx, cmux.IntentStatus(EndStatus(ec.Reason)))
	p.clearStatus(ctx, cmux.ChannelAttention)
	p.clearStatus(ctx, cmux.ChannelRunning)
	p.signal(ctx, cmux.PhaseStop)
	p.store.Remove()
}

// sessionEndNotification builds the end-of-session popup. An empty subtitle
// falls back to "Session ended".
func (p *Policy) sessionEndNotification(ctx context.Context, ec payload.Context, subtitle string) *notify.Notification {
	if p.userIsWatching(ctx) {
		return nil
	}
	if subtitle == "" {
		subtitle = "Session ended"
	}
	return &notify.Notification{
		Title:    p.opts.DisplayName,
		Subtitle: subtitle,
		Body:     EndStatus(ec.Reason) + ".",
	}
}

// EndStatus is the sidebar text for a finished session.
func EndStatus(reason string) string {
	if reason == "complete" {
		return "Task finished"
	}
	return fmt.Sprintf("Task stopped (%s)", reason)
}

// markRunning resets the session indicator: stop any previous run, then
// show it as running again.
func (p *Policy) markRunning(ctx context.Context) {
	p.signal(ctx, cmux.PhaseStop)
	p.setStatus(ctx, cmux.RunningStatus())
}

func (p *Policy) userIsWatching(ctx context.Context) bool {
	return p.focus != nil && p.focus.IsActive(ctx)
}

func (p *Policy) setStatus(ctx context.Context, status cmux.Status) {
	if p.sidebar == nil {
		return
	}
	if err := p.sidebar.SetStatus(ctx, status); err != nil {
		p.log.WithError(err).WithField("channel", status.Channel).Debug("set-status failed")
	}
}

func (p *Policy) clearStatus(ctx context.Context, channel cmux.StatusChannel) {
	if p.sidebar == nil {
		return
	}
	if err := p.sidebar.ClearStatus(ctx, channel); err != nil {
		p.log.WithError(err).WithField("channel", channel).Debug("clear-status failed")
	}
}

func (p *Policy) renameWorkspace(ctx context.Context, title string) {
	if err := p.sidebar.RenameWorkspace(ctx, title); err != nil {
		p.log.WithError(err).Debug("rename-workspace failed")
	}
}

func (p *Policy) signal(ctx context.Context, phase cmux.HookPhase) {
	if err := p.sidebar.SignalHook(ctx, phase); err != nil {
		p.log.WithError(err).WithField("phase", phase).Debug("claude-hook signal failed")
	}
}
