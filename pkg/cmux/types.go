package cmux

// StatusChannel names a sidebar status slot.
type StatusChannel string

const (
	ChannelIntent    StatusChannel = "intent"
	ChannelAttention StatusChannel = "attention"
	ChannelRunning   StatusChannel = "running"
)

// Status is one sidebar status entry.
type Status struct {
	Channel StatusChannel
	Message string
	Color   string
	Icon    string
}

// AttentionStatus flags the workspace as waiting on the user.
func AttentionStatus(label string) Status {
	return Status{Channel: ChannelAttention, Message: label, Icon: "bell.fill"}
}

// RunningStatus marks the session as actively working.
func RunningStatus() Status {
	return Status{Channel: ChannelRunning, Message: "Running", Color: "#34c759", Icon: "bolt.fill"}
}

// IntentStatus shows what the assistant is doing, without an icon.
func IntentStatus(message string) Status {
	return Status{Channel: ChannelIntent, Message: message}
}

// HookPhase is a session lifecycle signal understood by `cmux claude-hook`.
type HookPhase string

// PhaseStop marks the session stopped. The policy resets a session by
// stopping it and then setting the running status itself.
const PhaseStop HookPhase = "stop"

// Ref identifies a surface inside a workspace.
type Ref struct {
	SurfaceRef   *string `json:"surface_ref"`
	WorkspaceRef *string `json:"workspace_ref"`
}

// Identity is the output of `cmux identify --json`.
type Identity struct {
	Focused *Ref `json:"focused"`
	Caller  *Ref `json:"caller"`
}

// CallerFocused reports whether the focused surface and workspace are the
// caller's own. Missing or non-string references never match.
func (i *Identity) CallerFocused() bool {
	if i == nil || i.Focused == nil || i.Caller == nil {
		return false
	}
	return sameRef(i.Focused.SurfaceRef, i.Caller.SurfaceRef) &&
		sameRef(i.Focused.WorkspaceRef, i.Caller.WorkspaceRef)
}

func sameRef(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
