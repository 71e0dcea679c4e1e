package payload

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxBodyLength caps notification text, in characters.
const MaxBodyLength = 180

// DefaultReason is reported when a session end carries no reason.
const DefaultReason = "unknown"

var (
	sessionTitleKeys = []string{"sessionTitle", "session_title", "sessionName", "session_name"}
	directoryKeys    = []string{
		"cwd",
		"workingDirectory",
		"working_directory",
		"projectPath",
		"project_path",
		"workspacePath",
		"workspace_path",
		"directory",
	}
	toolNameKeys = []string{"toolName", "tool_name"}
	toolArgsKeys = []string{"toolArgs", "tool_args", "arguments"}
)

// Env supplies the process facts used when the payload does not name a
// working directory.
type Env struct {
	PWD   string
	Getwd func() (string, error)
}

// ProcessEnv reads PWD and the current directory from the running process.
func ProcessEnv() Env {
	return Env{PWD: os.Getenv("PWD"), Getwd: os.Getwd}
}

// Context is everything the policy needs to know about one event.
type Context struct {
	SessionTitle     string
	WorkingDirectory string
	ProjectName      string
	ToolName         string
	ToolArgs         Args
	Reason           string
}

// Extract derives the event context from a payload.
func Extract(p Payload, env Env) Context {
	dir := WorkingDirectory(p, env)
	return Context{
		SessionTitle:     FindFirstString(p, sessionTitleKeys...),
		WorkingDirectory: dir,
		ProjectName:      ProjectName(dir),
		ToolName:         ToolName(p),
		ToolArgs:         ToolArgs(p),
		Reason:           Reason(p),
	}
}

// WorkingDirectory resolves the directory the assistant runs in: an explicit
// payload field, then PWD, then the process working directory.
func WorkingDirectory(p Payload, env Env) string {
	if dir := FindFirstString(p, directoryKeys...); dir != "" {
		return dir
	}
	if pwd := strings.TrimSpace(env.PWD); pwd != "" {
		return pwd
	}
	if env.Getwd != nil {
		if cwd, err := env.Getwd(); err == nil {
			return cwd
		}
	}
	return ""
}

// ProjectName is the last element of the cleaned directory, or the cleaned
// directory itself when it has no last element (the filesystem root).
func ProjectName(dir string) string {
	if dir == "" {
		return ""
	}
	cleaned := filepath.Clean(dir)
	if base := filepath.Base(cleaned); base != "" && base != string(filepath.Separator) {
		return base
	}
	return cleaned
}

// ToolName reads the top-level tool name, if any.
func ToolName(p Payload) string {
	for _, key := range toolNameKeys {
		if s, ok := p[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// ToolArgs returns the tool arguments object. Arguments delivered as a JSON
// encoded string are decoded; anything that is not an object is ignored.
func ToolArgs(p Payload) Args {
	for _, key := range toolArgsKeys {
		switch v := p[key].(type) {
		case map[string]any:
			return Args(v)
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			var decoded any
			if err := json.Unmarshal([]byte(v), &decoded); err != nil {
				continue
			}
			if obj, ok := decoded.(map[string]any); ok {
				return Args(obj)
			}
		}
	}
	return Args{}
}

// Reason is the session end reason rendered as text, or DefaultReason when
// the field is absent or empty.
func Reason(p Payload) string {
	switch v := p["reason"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		if v != 0 {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	case bool:
		if v {
			return "true"
		}
	case []any, map[string]any:
		if containerLen(v) > 0 {
			if data, err := json.Marshal(v); err == nil {
				return string(data)
			}
		}
	}
	return DefaultReason
}

func containerLen(v any) int {
	switch v := v.(type) {
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	}
	return 0
}

// NormalizeBody collapses whitespace runs to single spaces, trims the ends
// and truncates to MaxBodyLength characters.
func NormalizeBody(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= MaxBodyLength {
		return collapsed
	}
	return string(runes[:MaxBodyLength])
}

// Subtitle is "<session title> — <project>", or whichever half is known.
func (c Context) Subtitle() string {
	if c.SessionTitle != "" && c.ProjectName != "" {
		return NormalizeBody(c.SessionTitle + " — " + c.ProjectName)
	}
	if c.SessionTitle != "" {
		return NormalizeBody(c.SessionTitle)
	}
	return NormalizeBody(c.ProjectName)
}

// WorkspaceTitle is "<project> — <session title>", or whichever half is known.
func (c Context) WorkspaceTitle() string {
	if c.SessionTitle != "" && c.ProjectName != "" {
		return c.ProjectName + " — " + c.SessionTitle
	}
	if c.ProjectName != "" {
		return c.ProjectName
	}
	return c.SessionTitle
}
