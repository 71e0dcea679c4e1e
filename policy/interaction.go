package policy

import (
	"github.com/grovetools/cmux-notify/payload"
)

// Tool names with dedicated labels and messages.
const (
	AskUserTool  = "ask_user"
	PlanExitTool = "exit_plan_mode"
)

// Sidebar labels for the attention indicator.
const (
	LabelNeedsAnswer   = "Needs answer"
	LabelNeedsApproval = "Needs approval"
	LabelNeedsInput    = "Needs input"
)

// IsInteractive reports whether a tool call is waiting on the user, either
// because the tool is known to be interactive or because its arguments ask
// something.
func (p *Policy) IsInteractive(toolName string, args payload.Args) bool {
	for _, name := range p.opts.InteractiveTools {
		if toolName == name {
			return true
		}
	}
	return args.HasInteractionMarkers()
}

// InteractionLabel is the attention label for a tool.
func InteractionLabel(toolName string) string {
	switch toolName {
	case AskUserTool:
		return LabelNeedsAnswer
	case PlanExitTool:
		return LabelNeedsApproval
	default:
		return LabelNeedsInput
	}
}

// InteractionBody is the popup text for an interactive tool call.
func InteractionBody(toolName string, args payload.Args, assistant string) string {
	question := payload.NormalizeBody(args.Question())
	fallback := assistant + " needs your input."

	switch toolName {
	case AskUserTool:
		if question != "" {
			return question
		}
		return fallback
	case PlanExitTool:
		if hint := args.SummaryHint(); hint != "" {
			return payload.NormalizeBody("Plan is ready for approval: " + hint)
		}
		return "Plan is ready for your approval."
	}

	if question != "" {
		return question
	}
	if hint := args.SummaryHint(); hint != "" {
		return payload.NormalizeBody("Action needed: " + hint)
	}
	if args.HasList("actions") {
		return assistant + " is waiting for your action."
	}
	return fallback
}
