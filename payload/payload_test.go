package payload

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) Payload {
	t.Helper()
	p, err := Parse([]byte(raw))
	require.NoError(t, err)
	return p
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"whitespace", "  \n\t", 0, false},
		{"object", `{"toolName":"ask_user"}`, 1, false},
		{"array top level", `[1,2,3]`, 0, false},
		{"string top level", `"hello"`, 0, false},
		{"invalid", `{"toolName":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, p)
			assert.Len(t, p, tt.wantLen)
		})
	}
}

func TestFindFirstString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		keys []string
		want string
	}{
		{"nested match", `{"a": {"sessionTitle": "Fix bug"}}`, []string{"sessionTitle"}, "Fix bug"},
		{"no match", `{"a": {"other": "x"}, "b": [1, 2]}`, []string{"sessionTitle"}, ""},
		{"trimmed", `{"sessionTitle": "  Fix bug \n"}`, []string{"sessionTitle"}, "Fix bug"},
		{"blank skipped", `{"sessionTitle": "   ", "x": {"sessionTitle": "Deep"}}`, []string{"sessionTitle"}, "Deep"},
		{"non-string skipped", `{"sessionTitle": 42, "x": {"session_title": "Snake"}}`, []string{"sessionTitle", "session_title"}, "Snake"},
		{"inside list", `{"items": [1, "x", {"cwd": "/work/a"}]}`, []string{"cwd"}, "/work/a"},
		{"key order at same level", `{"session_title": "B", "sessionTitle": "A"}`, []string{"sessionTitle", "session_title"}, "A"},
		{"current level before children", `{"a": {"cwd": "/deep"}, "cwd": "/top"}`, []string{"cwd"}, "/top"},
		{"siblings in lexical order", `{"b": {"cwd": "/b"}, "a": {"cwd": "/a"}}`, []string{"cwd"}, "/a"},
		{"list items in order", `{"l": [{"cwd": "/first"}, {"cwd": "/second"}]}`, []string{"cwd"}, "/first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindFirstString(mustParse(t, tt.raw), tt.keys...))
		})
	}
}

func TestFindFirstStringNonObjectRoot(t *testing.T) {
	assert.Equal(t, "", FindFirstString("plain", "cwd"))
	assert.Equal(t, "", FindFirstString(nil, "cwd"))
	assert.Equal(t, "", FindFirstString([]any{map[string]any{"cwd": "/x"}}, "cwd"))
}

func TestNormalizeBody(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeBody("  a \n\n b\t\tc  "))
	assert.Equal(t, "", NormalizeBody(" \n "))

	long := strings.Repeat("word   ", 100)
	got := NormalizeBody(long)
	assert.LessOrEqual(t, len([]rune(got)), MaxBodyLength)
	assert.NotContains(t, got, "  ")

	multibyte := strings.Repeat("é", 300)
	assert.Equal(t, MaxBodyLength, len([]rune(NormalizeBody(multibyte))))
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"/home/user/myproj", "myproj"},
		{"/home/user/myproj/", "myproj"},
		{"/home/user/../user/proj", "proj"},
		{"/", "/"},
		{"", ""},
		{"relative/dir", "dir"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectName(tt.dir))
		})
	}
}

func TestWorkingDirectory(t *testing.T) {
	failingGetwd := func() (string, error) { return "", errors.New("gone") }
	fixedGetwd := func() (string, error) { return "/from/getwd", nil }

	tests := []struct {
		name string
		raw  string
		env  Env
		want string
	}{
		{"payload wins", `{"context": {"workingDirectory": "/from/payload"}}`, Env{PWD: "/from/pwd", Getwd: fixedGetwd}, "/from/payload"},
		{"pwd fallback", `{}`, Env{PWD: " /from/pwd ", Getwd: fixedGetwd}, "/from/pwd"},
		{"getwd fallback", `{}`, Env{Getwd: fixedGetwd}, "/from/getwd"},
		{"nothing resolvable", `{}`, Env{Getwd: failingGetwd}, ""},
		{"nil getwd", `{}`, Env{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkingDirectory(mustParse(t, tt.raw), tt.env))
		})
	}
}

func TestToolArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Args
	}{
		{"object", `{"toolArgs": {"question": "Proceed?"}}`, Args{"question": "Proceed?"}},
		{"snake case", `{"tool_args": {"intent": "Reading"}}`, Args{"intent": "Reading"}},
		{"json string", `{"arguments": "{\"intent\": \"Testing\"}"}`, Args{"intent": "Testing"}},
		{"json string not object", `{"toolArgs": "[1,2]"}`, Args{}},
		{"bad json falls through", `{"toolArgs": "{oops", "arguments": {"a": "b"}}`, Args{"a": "b"}},
		{"absent", `{}`, Args{}},
		{"number", `{"toolArgs": 5}`, Args{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolArgs(mustParse(t, tt.raw)))
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "complete", Reason(Payload{"reason": "complete"}))
	assert.Equal(t, "unknown", Reason(Payload{}))
	assert.Equal(t, "unknown", Reason(Payload{"reason": ""}))
	assert.Equal(t, "unknown", Reason(Payload{"reason": nil}))
	assert.Equal(t, "42", Reason(Payload{"reason": float64(42)}))
	assert.Equal(t, "2.5", Reason(Payload{"reason": 2.5}))
	assert.Equal(t, `["quota","user"]`, Reason(mustParse(t, `{"reason": ["quota", "user"]}`)))
	assert.Equal(t, `{"code":7}`, Reason(mustParse(t, `{"reason": {"code": 7}}`)))
	assert.Equal(t, "unknown", Reason(mustParse(t, `{"reason": []}`)))
	assert.Equal(t, "unknown", Reason(mustParse(t, `{"reason": {}}`)))
}

func TestExtract(t *testing.T) {
	p := mustParse(t, `{
		"toolName": "ask_user",
		"toolArgs": {"question": "Which branch?"},
		"session": {"sessionName": "Fix login"},
		"cwd": "/home/user/webapp"
	}`)

	ctx := Extract(p, Env{})
	assert.Equal(t, "Fix login", ctx.SessionTitle)
	assert.Equal(t, "/home/user/webapp", ctx.WorkingDirectory)
	assert.Equal(t, "webapp", ctx.ProjectName)
	assert.Equal(t, "ask_user", ctx.ToolName)
	assert.Equal(t, "Which branch?", ctx.ToolArgs.Question())
	assert.Equal(t, "unknown", ctx.Reason)
	assert.Equal(t, "Fix login — webapp", ctx.Subtitle())
	assert.Equal(t, "webapp — Fix login", ctx.WorkspaceTitle())
}

func TestSubtitleAndWorkspaceTitle(t *testing.T) {
	tests := []struct {
		name         string
		ctx          Context
		subtitle     string
		workspaceTtl string
	}{
		{"both", Context{SessionTitle: "Fix  bug", ProjectName: "proj"}, "Fix bug — proj", "proj — Fix  bug"},
		{"title only", Context{SessionTitle: "Fix bug"}, "Fix bug", "Fix bug"},
		{"project only", Context{ProjectName: "proj"}, "proj", "proj"},
		{"neither", Context{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.subtitle, tt.ctx.Subtitle())
			assert.Equal(t, tt.workspaceTtl, tt.ctx.WorkspaceTitle())
		})
	}
}
