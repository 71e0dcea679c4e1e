package errors

import (
	"fmt"
	"os/exec"
	"testing"
	"time"
)

func TestHookError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeCommandNotFound, "cmux not found")
	if err.Code != ErrCodeCommandNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeCommandNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeCommandFailed, "command failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeCommandFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeCommandNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Codes survive fmt wrapping
	outer := fmt.Errorf("identify: %w", wrapped)
	if GetCode(outer) != ErrCodeCommandFailed {
		t.Errorf("expected code through wrapping, got %q", GetCode(outer))
	}

	if Is(fmt.Errorf("plain"), "") {
		t.Error("Is should never match an empty code")
	}

	detailed := err.WithDetail("command", "cmux").WithDetail("attempt", 1)
	if detailed.Details["command"] != "cmux" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := CommandTimeout("cmux identify", 2*time.Second)
	if err.Code != ErrCodeCommandTimeout {
		t.Errorf("expected code %s, got %s", ErrCodeCommandTimeout, err.Code)
	}
	if err.Details["timeout"] != "2s" {
		t.Errorf("expected timeout detail 2s, got %v", err.Details["timeout"])
	}

	err = StateIO("/tmp/x.json", fmt.Errorf("denied"))
	if err.Code != ErrCodeStateIO || err.Details["path"] != "/tmp/x.json" {
		t.Errorf("unexpected state error: %+v", err)
	}

	exitErr := exec.Command("sh", "-c", "exit 3").Run()
	err = CommandFailed("sh", exitErr)
	if err.Details["exitCode"] != 3 {
		t.Errorf("expected exitCode detail 3, got %v", err.Details["exitCode"])
	}
}
