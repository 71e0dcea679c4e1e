package policy

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/grovetools/cmux-notify/notify"
	"github.com/grovetools/cmux-notify/payload"
	"github.com/grovetools/cmux-notify/pkg/cmux"
	"github.com/grovetools/cmux-notify/state"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSidebar records every cmux call as a short string.
type fakeSidebar struct {
	calls []string
	err   error
}

func (f *fakeSidebar) RenameWorkspace(_ context.Context, title string) error {
	f.calls = append(f.calls, "rename "+title)
	return f.err
}

func (f *fakeSidebar) SetStatus(_ context.Context, s cmux.Status) error {
	f.calls = append(f.calls, fmt.Sprintf("set %s %q", s.Channel, s.Message))
	return f.err
}

func (f *fakeSidebar) ClearStatus(_ context.Context, channel cmux.StatusChannel) error {
	f.calls = append(f.calls, "clear "+string(channel))
	return f.err
}

func (f *fakeSidebar) SignalHook(_ context.Context, phase cmux.HookPhase) error {
	f.calls = append(f.calls, "signal "+string(phase))
	return f.err
}

type fakeFocus struct {
	active bool
	calls  int
}

func (f *fakeFocus) IsActive(context.Context) bool {
	f.calls++
	return f.active
}

func quietLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type harness struct {
	policy  *Policy
	sidebar *fakeSidebar
	focus   *fakeFocus
	store   *state.MemoryStore
}

func newHarness(opts Options) *harness {
	h := &harness{
		sidebar: &fakeSidebar{},
		focus:   &fakeFocus{},
		store:   state.NewMemoryStore(),
	}
	h.policy = New(opts, h.sidebar, h.focus, h.store, quietLog())
	return h
}

func extract(t *testing.T, raw string) payload.Context {
	t.Helper()
	p, err := payload.Parse([]byte(raw))
	require.NoError(t, err)
	return payload.Extract(p, payload.Env{})
}

func TestIsInteractive(t *testing.T) {
	p := New(DefaultOptions(), nil, nil, nil, quietLog())

	tests := []struct {
		name string
		tool string
		args payload.Args
		want bool
	}{
		{"ask_user with empty args", "ask_user", payload.Args{}, true},
		{"exit_plan_mode", "exit_plan_mode", payload.Args{}, true},
		{"custom tool with question", "custom_tool", payload.Args{"question": "Proceed?"}, true},
		{"custom tool with choices", "custom_tool", payload.Args{"choices": []any{"a"}}, true},
		{"custom tool with empty args", "custom_tool", payload.Args{}, false},
		{"bash", "bash", payload.Args{"command": "ls"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsInteractive(tt.tool, tt.args))
		})
	}
}

func TestInteractionBody(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args payload.Args
		want string
	}{
		{"ask_user question", "ask_user", payload.Args{"question": "Which\n  branch?"}, "Which branch?"},
		{"ask_user fallback", "ask_user", payload.Args{}, "Copilot needs your input."},
		{"plan with summary", "exit_plan_mode", payload.Args{"summary": "\n- Refactor auth module\n- Add tests"}, "Plan is ready for approval: Refactor auth module"},
		{"plan fallback", "exit_plan_mode", payload.Args{"question": "ignored"}, "Plan is ready for your approval."},
		{"other question", "custom", payload.Args{"question": "Proceed?", "summary": "x"}, "Proceed?"},
		{"other summary", "custom", payload.Args{"summary": "* Deploy to prod", "choices": []any{"y"}}, "Action needed: Deploy to prod"},
		{"other actions", "custom", payload.Args{"actions": []any{"retry"}}, "Copilot is waiting for your action."},
		{"other fallback", "custom", payload.Args{"recommendedAction": "merge"}, "Copilot needs your input."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InteractionBody(tt.tool, tt.args, "Copilot"))
		})
	}
}

func TestInteractionLabel(t *testing.T) {
	assert.Equal(t, "Needs answer", InteractionLabel("ask_user"))
	assert.Equal(t, "Needs approval", InteractionLabel("exit_plan_mode"))
	assert.Equal(t, "Needs input", InteractionLabel("custom_tool"))
}

func TestEndStatus(t *testing.T) {
	assert.Equal(t, "Task finished", EndStatus("complete"))
	assert.Equal(t, "Task stopped (timeout)", EndStatus("timeout"))
	assert.Equal(t, "Task stopped (unknown)", EndStatus("unknown"))
}

func TestAskUserEndToEnd(t *testing.T) {
	h := newHarness(DefaultOptions())

	n := h.policy.Evaluate(context.Background(), EventPreToolUse,
		extract(t, `{"toolName": "ask_user", "toolArgs": {"question": "Which branch?"}}`))

	require.NotNil(t, n)
	assert.Equal(t, notify.Notification{Title: "Copilot CLI", Subtitle: "Needs answer", Body: "Which branch?"}, *n)
	assert.Equal(t, []string{`set attention "Needs answer"`}, h.sidebar.calls)
}

func TestInteractiveUsesContextSubtitle(t *testing.T) {
	h := newHarness(DefaultOptions())

	n := h.policy.Evaluate(context.Background(), EventPostToolUse,
		extract(t, `{"toolName": "exit_plan_mode", "sessionTitle": "Fix login", "cwd": "/src/webapp",
			"toolArgs": "{\"summary\": \"- Rewrite session handling\"}"}`))

	require.NotNil(t, n)
	assert.Equal(t, "Fix login — webapp", n.Subtitle)
	assert.Equal(t, "Plan is ready for approval: Rewrite session handling", n.Body)
	assert.Equal(t, []string{`set attention "Needs approval"`}, h.sidebar.calls)
}

func TestFocusSuppressesNotificationsButNotStatus(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.focus.active = true
	ctx := context.Background()

	n := h.policy.Evaluate(ctx, EventPreToolUse, extract(t, `{"toolName": "ask_user", "toolArgs": {"question": "Q?"}}`))
	assert.Nil(t, n)
	assert.Contains(t, h.sidebar.calls, `set attention "Needs answer"`)

	n = h.policy.Evaluate(ctx, EventSessionEnd, extract(t, `{"reason": "complete"}`))
	assert.Nil(t, n)
	assert.Contains(t, h.sidebar.calls, `set intent "Task finished"`)
}

func TestNonInteractiveToolClearsAttention(t *testing.T) {
	h := newHarness(DefaultOptions())

	n := h.policy.Evaluate(context.Background(), EventPostToolUse, extract(t, `{"toolName": "bash", "toolArgs": {"command": "ls"}}`))

	assert.Nil(t, n)
	assert.Equal(t, []string{"clear attention"}, h.sidebar.calls)
	assert.Zero(t, h.focus.calls)
}

func TestReportIntent(t *testing.T) {
	h := newHarness(DefaultOptions())
	ctx := context.Background()

	first := extract(t, `{"toolName": "report_intent", "toolArgs": {"intent": "  Reading files "}, "cwd": "/src/webapp"}`)
	assert.Nil(t, h.policy.Evaluate(ctx, EventPreToolUse, first))

	assert.Equal(t, []string{
		"signal stop",
		`set running "Running"`,
		"rename webapp",
		"clear attention",
		`set intent "Reading files"`,
	}, h.sidebar.calls)
	assert.Equal(t, state.Session{Started: true, Title: "webapp"}, h.store.Load())

	// Same title, already started: only the intent changes.
	h.sidebar.calls = nil
	second := extract(t, `{"toolName": "report_intent", "toolArgs": {"intent": "Running tests"}, "cwd": "/src/webapp"}`)
	assert.Nil(t, h.policy.Evaluate(ctx, EventPostToolUse, second))
	assert.Equal(t, []string{"clear attention", `set intent "Running tests"`}, h.sidebar.calls)

	// A new session title renames the workspace once.
	h.sidebar.calls = nil
	third := extract(t, `{"toolName": "report_intent", "toolArgs": {"intent": "Fixing"}, "cwd": "/src/webapp", "sessionTitle": "Fix login"}`)
	h.policy.Evaluate(ctx, EventPostToolUse, third)
	assert.Equal(t, []string{"rename webapp — Fix login", "clear attention", `set intent "Fixing"`}, h.sidebar.calls)
	assert.Equal(t, "webapp — Fix login", h.store.Load().Title)
}

func TestReportIntentWithoutIntentIsNoop(t *testing.T) {
	h := newHarness(DefaultOptions())

	h.policy.Evaluate(context.Background(), EventPreToolUse, extract(t, `{"toolName": "report_intent", "toolArgs": {"intent": "  "}}`))

	assert.Empty(t, h.sidebar.calls)
	assert.False(t, h.store.Exists())
}

func TestSessionStart(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.store.Save(state.Session{Started: false, Title: "stale"})

	n := h.policy.Evaluate(context.Background(), EventSessionStart, extract(t, `{"sessionTitle": "Fix login", "cwd": "/src/webapp"}`))

	assert.Nil(t, n)
	assert.Equal(t, []string{
		"clear attention",
		`set intent ""`,
		"signal stop",
		`set running "Running"`,
		"rename webapp — Fix login",
	}, h.sidebar.calls)
	assert.Equal(t, state.Session{Started: true, Title: "webapp — Fix login"}, h.store.Load())
}

func TestSessionStartWithoutTitle(t *testing.T) {
	h := newHarness(DefaultOptions())

	h.policy.Evaluate(context.Background(), EventSessionStart, extract(t, `{}`))

	assert.Equal(t, []string{"clear attention", `set intent ""`, "signal stop", `set running "Running"`}, h.sidebar.calls)
	assert.Equal(t, state.Session{Started: true}, h.store.Load())
}

func TestSessionEnd(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantStatus   string
		wantSubtitle string
		wantBody     string
	}{
		{"complete", `{"reason": "complete"}`, "Task finished", "Session ended", "Task finished."},
		{"timeout", `{"reason": "timeout"}`, "Task stopped (timeout)", "Session ended", "Task stopped (timeout)."},
		{"no reason", `{}`, "Task stopped (unknown)", "Session ended", "Task stopped (unknown)."},
		{"with context", `{"reason": "complete", "cwd": "/src/webapp"}`, "Task finished", "webapp", "Task finished."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(DefaultOptions())
			h.store.Save(state.Session{Started: true, Title: "x"})

			n := h.policy.Evaluate(context.Background(), EventSessionEnd, extract(t, tt.raw))

			require.NotNil(t, n)
			assert.Equal(t, "Copilot CLI", n.Title)
			assert.Equal(t, tt.wantSubtitle, n.Subtitle)
			assert.Equal(t, tt.wantBody, n.Body)
			assert.Equal(t, []string{
				fmt.Sprintf("set intent %q", tt.wantStatus),
				"clear attention",
				"clear running",
				"signal stop",
			}, h.sidebar.calls)
			assert.False(t, h.store.Exists())
		})
	}
}

func TestUnrecognizedEvent(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.store.Save(state.Session{Started: true})

	n := h.policy.Evaluate(context.Background(), "userPromptSubmitted", extract(t, `{"toolName": "ask_user"}`))

	assert.Nil(t, n)
	assert.Empty(t, h.sidebar.calls)
	assert.Equal(t, state.Session{Started: true}, h.store.Load())
}

func TestSidebarFailuresDoNotStopProcessing(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.sidebar.err = fmt.Errorf("cmux exited 1")

	h.policy.Evaluate(context.Background(), EventSessionStart, extract(t, `{"cwd": "/src/webapp"}`))
	assert.Equal(t, state.Session{Started: true, Title: "webapp"}, h.store.Load())

	n := h.policy.Evaluate(context.Background(), EventPreToolUse, extract(t, `{"toolName": "ask_user"}`))
	require.NotNil(t, n)
	assert.Equal(t, "Copilot needs your input.", n.Body)
}

func TestWithoutSidebar(t *testing.T) {
	store := state.NewMemoryStore()
	p := New(DefaultOptions(), nil, &fakeFocus{}, store, quietLog())
	ctx := context.Background()

	assert.Nil(t, p.Evaluate(ctx, EventSessionStart, extract(t, `{"cwd": "/src/webapp"}`)))
	assert.False(t, store.Exists())

	n := p.Evaluate(ctx, EventPreToolUse, extract(t, `{"toolName": "ask_user", "toolArgs": {"question": "Q?"}}`))
	require.NotNil(t, n)
	assert.Equal(t, "Q?", n.Body)

	n = p.Evaluate(ctx, EventSessionEnd, extract(t, `{"reason": "complete"}`))
	require.NotNil(t, n)
	assert.Equal(t, "Task finished.", n.Body)
}

func TestMinimalMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeMinimal
	h := newHarness(opts)
	ctx := context.Background()

	n := h.policy.Evaluate(ctx, EventPreToolUse, extract(t, `{"toolName": "ask_user", "cwd": "/src/webapp", "toolArgs": {"question": "Which branch?"}}`))
	require.NotNil(t, n)
	assert.Equal(t, notify.Notification{Title: "Copilot CLI", Subtitle: "Needs answer", Body: "Which branch?"}, *n)

	assert.Nil(t, h.policy.Evaluate(ctx, EventPreToolUse, extract(t, `{"toolName": "exit_plan_mode"}`)))
	assert.Nil(t, h.policy.Evaluate(ctx, EventSessionStart, extract(t, `{}`)))

	n = h.policy.Evaluate(ctx, EventSessionEnd, extract(t, `{"reason": "cancelled", "cwd": "/src/webapp"}`))
	require.NotNil(t, n)
	assert.Equal(t, notify.Notification{Title: "Copilot CLI", Subtitle: "Session ended", Body: "Task stopped (cancelled)."}, *n)

	assert.Empty(t, h.sidebar.calls)
	assert.False(t, h.store.Exists())

	h.focus.active = true
	assert.Nil(t, h.policy.Evaluate(ctx, EventPreToolUse, extract(t, `{"toolName": "ask_user"}`)))
}

func TestCustomOptions(t *testing.T) {
	h := newHarness(Options{
		DisplayName:      "Gemini CLI",
		AssistantName:    "Gemini",
		InteractiveTools: []string{"ask_user", "confirm"},
		IntentTool:       "set_intent",
	})
	ctx := context.Background()

	n := h.policy.Evaluate(ctx, EventPreToolUse, extract(t, `{"toolName": "confirm"}`))
	require.NotNil(t, n)
	assert.Equal(t, "Gemini CLI", n.Title)
	assert.Equal(t, "Needs input", n.Subtitle)
	assert.Equal(t, "Gemini needs your input.", n.Body)

	h.sidebar.calls = nil
	h.policy.Evaluate(ctx, EventPreToolUse, extract(t, `{"toolName": "set_intent", "toolArgs": {"intent": "Planning"}}`))
	assert.Contains(t, h.sidebar.calls, `set intent "Planning"`)
}
